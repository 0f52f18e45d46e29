package platform

// AppName identifies the application to notification centers.
const AppName = "Colorbook"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath optionally points at an image shown with the notification.
	IconPath string
}

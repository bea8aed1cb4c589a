package models

// App is an "installed application" entry: credentials LastPass fills into a
// desktop application rather than a web form.
type App struct {
	// ID is the entry's unique identifier.
	ID ID

	// AppName is the application's path or name (hex-encoded on the wire).
	AppName string

	// Extra is the decrypted notes field.
	Extra string

	// Name is the decrypted display name.
	Name string

	// Group is the decrypted folder path.
	Group string

	// LastTouch is the server's decimal timestamp of the last use.
	LastTouch string

	// PasswordProtected reports whether the UI should re-prompt for the
	// master password before revealing this entry.
	PasswordProtected bool

	// Favourite reports whether the user starred this entry.
	Favourite bool

	// WindowTitle matches the application window this entry fills.
	WindowTitle string

	// WindowInfo carries extra window-matching data.
	WindowInfo string

	// ExeVersion is the application version the entry was saved against.
	ExeVersion string

	// Autologin reports whether LastPass should fill without prompting.
	Autologin bool

	// WarnVersion is the version threshold for the "application changed"
	// warning.
	WarnVersion string

	// ExeHash fingerprints the executable the entry was saved against.
	ExeHash string
}

package models

// Field is a custom key/value entry attached to an account, mirroring one
// input element of the saved web form.
type Field struct {
	// Name is the field's name attribute.
	Name string

	// Type is the field's free-form type string ("text", "password",
	// "checkbox", "select-one", ...).
	Type string

	// Value is the field's value, decrypted when Type implies sensitive
	// text, otherwise the raw decoded string.
	Value string

	// Checked is meaningful only for checkbox-like fields.
	Checked bool
}

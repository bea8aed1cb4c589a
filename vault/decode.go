// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"unicode/utf8"

	"github.com/mkhiriev/go-lastpass/keys"
	"github.com/mkhiriev/go-lastpass/models"
)

// recordReader pulls length-prefixed sub-fields out of one chunk payload.
// Sub-fields carry no tags, so meaning comes purely from position; every
// read names the field it expects so errors stay diagnosable. The first
// failure sticks and turns all later reads into no-ops, which keeps the
// decode functions a straight list of reads with a single error check at
// the end.
type recordReader struct {
	buf    []byte
	pos    int
	master keys.DecryptionKey
	err    error
}

func newRecordReader(payload []byte, master keys.DecryptionKey) *recordReader {
	return &recordReader{buf: payload, master: master}
}

// item returns the next raw sub-field. Running out of bytes mid-field is a
// TruncatedError; unlike the chunk layer there is no legitimate reason for
// a record to stop partway through.
func (r *recordReader) item(field string) []byte {
	if r.err != nil {
		return nil
	}
	if r.pos+4 > len(r.buf) {
		r.err = &TruncatedError{Field: field}
		return nil
	}
	size := binary.BigEndian.Uint32(r.buf[r.pos : r.pos+4])
	start := r.pos + 4
	if start+int(size) > len(r.buf) {
		r.err = &TruncatedError{Field: field}
		return nil
	}
	r.pos = start + int(size)
	return r.buf[start : start+int(size)]
}

func (r *recordReader) skip(field string) {
	r.item(field)
}

func (r *recordReader) str(field string) string {
	raw := r.item(field)
	if r.err != nil {
		return ""
	}
	if !utf8.Valid(raw) {
		r.err = &EncodingError{Field: field}
		return ""
	}
	return string(raw)
}

// encrypted reads a sub-field and decrypts it with the vault key. The
// ciphertext itself decides between the two cipher modes.
func (r *recordReader) encrypted(field string) string {
	raw := r.item(field)
	if r.err != nil {
		return ""
	}
	plain, err := r.master.Decrypt(raw)
	if err != nil {
		r.err = &DecryptError{Field: field, Err: err}
		return ""
	}
	if !utf8.Valid(plain) {
		r.err = &EncodingError{Field: field}
		return ""
	}
	return string(plain)
}

// hexText reads a hex-encoded sub-field and returns the decoded text.
func (r *recordReader) hexText(field string) string {
	raw := r.item(field)
	if r.err != nil {
		return ""
	}
	decoded, err := hex.DecodeString(string(raw))
	if err != nil {
		r.err = &ValueError{Field: field, Err: err}
		return ""
	}
	if !utf8.Valid(decoded) {
		r.err = &EncodingError{Field: field}
		return ""
	}
	return string(decoded)
}

// boolean reads a sub-field holding "1" or "0".
func (r *recordReader) boolean(field string) bool {
	return r.str(field) == "1"
}

func (r *recordReader) id(field string) models.ID {
	return models.ID(r.str(field))
}

func (r *recordReader) uint(field string) uint64 {
	s := r.str(field)
	if r.err != nil {
		return 0
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		r.err = &ValueError{Field: field, Err: err}
		return 0
	}
	return n
}

// decodeAccount decodes an ACCT payload. The read order below is the wire
// schema; reordering any line changes which bytes land in which field.
func decodeAccount(payload []byte, master keys.DecryptionKey) (*models.Account, error) {
	r := newRecordReader(payload, master)

	acct := &models.Account{}
	acct.ID = r.id("id")
	acct.Name = r.encrypted("name")
	acct.Group = r.encrypted("group")
	acct.URL = r.hexText("url")
	acct.Note = r.encrypted("note")
	acct.Favourite = r.boolean("fav")
	r.skip("sharedfromaid")
	acct.Username = r.encrypted("username")
	acct.Password = r.encrypted("password")
	acct.PasswordProtected = r.boolean("pwprotect")
	r.skip("genpw")
	r.skip("sn")
	acct.LastTouch = r.str("last_touch")
	r.skip("autologin")
	r.skip("never_autofill")
	r.skip("realm_data")
	r.skip("fiid")
	r.skip("custom_js")
	r.skip("submit_id")
	r.skip("captcha_id")
	r.skip("urid")
	r.skip("basic_auth")
	r.skip("method")
	r.skip("action")
	r.skip("groupid")
	r.skip("deleted")
	acct.EncryptedAttachmentKey = r.str("attachkey")
	acct.AttachmentPresent = r.boolean("attachpresent")
	r.skip("individualshare")
	acct.NoteType = r.str("notetype")
	r.skip("noalert")
	acct.LastModified = r.str("last_modified")
	r.skip("hasbeenshared")
	r.skip("last_pwchange_gmt")
	r.skip("created_gmt")
	r.skip("vulnerable")

	if r.err != nil {
		return nil, r.err
	}
	return acct, nil
}

// decodeAttachment decodes an ATTA payload. The filename stays encrypted
// because it needs the parent account's attachment key, which the caller
// may not have unwrapped yet.
func decodeAttachment(payload []byte, master keys.DecryptionKey) (*models.Attachment, error) {
	r := newRecordReader(payload, master)

	att := &models.Attachment{}
	att.ID = r.id("id")
	att.Parent = r.id("parent")
	att.MimeType = r.str("mimetype")
	att.StorageKey = r.str("storagekey")
	att.Size = r.uint("size")
	att.EncryptedFilename = r.str("filename")

	if r.err != nil {
		return nil, r.err
	}
	return att, nil
}

// sensitiveFieldTypes lists the form-field types whose values travel
// encrypted. Everything else (checkbox, select-one, radio, ...) is stored
// in the clear.
var sensitiveFieldTypes = map[string]bool{
	"email":    true,
	"tel":      true,
	"text":     true,
	"password": true,
	"textarea": true,
}

// decodeField decodes an ACFL or ACOF payload.
func decodeField(payload []byte, master keys.DecryptionKey) (*models.Field, error) {
	r := newRecordReader(payload, master)

	f := &models.Field{}
	f.Name = r.str("name")
	f.Type = r.str("type")
	if sensitiveFieldTypes[f.Type] {
		f.Value = r.encrypted("value")
	} else {
		f.Value = r.str("value")
	}
	f.Checked = r.boolean("checked")

	if r.err != nil {
		return nil, r.err
	}
	return f, nil
}

// decodeApp decodes an AACT payload.
func decodeApp(payload []byte, master keys.DecryptionKey) (*models.App, error) {
	r := newRecordReader(payload, master)

	app := &models.App{}
	app.ID = r.id("id")
	app.AppName = r.hexText("appname")
	app.Extra = r.encrypted("extra")
	app.Name = r.encrypted("name")
	app.Group = r.encrypted("group")
	app.LastTouch = r.str("last_touch")
	r.skip("fiid")
	app.PasswordProtected = r.boolean("pwprotect")
	app.Favourite = r.boolean("fav")
	app.WindowTitle = r.str("wintitle")
	app.WindowInfo = r.str("wininfo")
	app.ExeVersion = r.str("exeversion")
	app.Autologin = r.boolean("autologin")
	app.WarnVersion = r.str("warnversion")
	app.ExeHash = r.str("exehash")

	if r.err != nil {
		return nil, r.err
	}
	return app, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkhiriev/go-lastpass/keys"
	"github.com/mkhiriev/go-lastpass/models"
)

func testMasterKey() keys.DecryptionKey {
	return keys.CalculateDecryptionKey("user@example.com", "correct horse battery staple", 1)
}

func chunkBytes(tag string, payload []byte) []byte {
	out := make([]byte, 0, 8+len(payload))
	out = append(out, tag...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(payload)))
	return append(out, payload...)
}

func itemBytes(value []byte) []byte {
	out := binary.BigEndian.AppendUint32(nil, uint32(len(value)))
	return append(out, value...)
}

func pad(plain []byte) []byte {
	n := aes.BlockSize - len(plain)%aes.BlockSize
	out := make([]byte, len(plain), len(plain)+n)
	copy(out, plain)
	for i := 0; i < n; i++ {
		out = append(out, byte(n))
	}
	return out
}

func encryptECB(t *testing.T, master keys.DecryptionKey, plain string) []byte {
	t.Helper()

	block, err := aes.NewCipher(master.Raw())
	require.NoError(t, err)

	padded := pad([]byte(plain))
	out := make([]byte, len(padded))
	for i := 0; i < len(padded); i += aes.BlockSize {
		block.Encrypt(out[i:i+aes.BlockSize], padded[i:i+aes.BlockSize])
	}
	return out
}

func encryptCBC(t *testing.T, master keys.DecryptionKey, plain string) []byte {
	t.Helper()

	block, err := aes.NewCipher(master.Raw())
	require.NoError(t, err)

	iv := []byte("0123456789abcdef")
	padded := pad([]byte(plain))
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, padded)

	out := []byte{'!'}
	out = append(out, iv...)
	return append(out, ct...)
}

// accountPayload lays out the 36 positional sub-fields of an account record,
// with realistic values in the slots the decoder reads and empty items in
// the slots it skips.
func accountPayload(t *testing.T, master keys.DecryptionKey) []byte {
	t.Helper()

	enc := func(s string) []byte { return encryptECB(t, master, s) }
	empty := []byte{}

	items := [][]byte{
		[]byte("5496230974130180673"),                 // id
		enc("My Bank"),                                // name
		enc("Finance\\Personal"),                      // group
		[]byte(hex.EncodeToString([]byte("https://bank.example.com"))), // url
		encryptCBC(t, master, "safe deposit box 42"),  // note
		[]byte("1"),                                   // fav
		empty,                                         // sharedfromaid
		enc("bob"),                                    // username
		enc("hunter2"),                                // password
		[]byte("0"),                                   // pwprotect
		empty,                                         // genpw
		empty,                                         // sn
		[]byte("1584085522"),                          // last_touch
		empty, empty, empty, empty, empty, empty,      // autologin .. submit_id
		empty, empty, empty, empty, empty, empty,      // captcha_id .. groupid
		empty,                                         // deleted
		[]byte("!YXR0YWNobWVudGtleQ=="),               // attachkey
		[]byte("1"),                                   // attachpresent
		empty,                                         // individualshare
		[]byte("Generic"),                             // notetype
		empty,                                         // noalert
		[]byte("1584081322"),                          // last_modified
		empty, empty, empty,                           // hasbeenshared .. created_gmt
		empty,                                         // vulnerable
	}

	var payload []byte
	for _, item := range items {
		payload = append(payload, itemBytes(item)...)
	}
	return payload
}

func attachmentPayload(parent models.ID) []byte {
	items := [][]byte{
		[]byte("1120"),
		[]byte(parent),
		[]byte("other:txt"),
		[]byte("100000011220"),
		[]byte("70"),
		[]byte("!bm90IGEgcmVhbCBmaWxlbmFtZQ=="),
	}

	var payload []byte
	for _, item := range items {
		payload = append(payload, itemBytes(item)...)
	}
	return payload
}

func fieldPayload(t *testing.T, master keys.DecryptionKey, name, typ, value string, checked bool) []byte {
	t.Helper()

	raw := []byte(value)
	if sensitiveFieldTypes[typ] {
		raw = encryptECB(t, master, value)
	}
	checkedItem := []byte("0")
	if checked {
		checkedItem = []byte("1")
	}

	var payload []byte
	payload = append(payload, itemBytes([]byte(name))...)
	payload = append(payload, itemBytes([]byte(typ))...)
	payload = append(payload, itemBytes(raw)...)
	payload = append(payload, itemBytes(checkedItem)...)
	return payload
}

func TestParseVersionOnly(t *testing.T) {
	master := testMasterKey()
	raw := chunkBytes("LPAV", []byte("198"))

	v, err := Parse(raw, master, keys.PrivateKey{})
	require.NoError(t, err)

	assert.Equal(t, uint64(198), v.Version)
	assert.Empty(t, v.Accounts)
	assert.False(t, v.Local)
}

func TestParseMissingVersion(t *testing.T) {
	master := testMasterKey()

	_, err := Parse(nil, master, keys.PrivateKey{})

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
}

func TestParseUnparsableVersion(t *testing.T) {
	master := testMasterKey()
	raw := chunkBytes("LPAV", []byte("not a number"))

	_, err := Parse(raw, master, keys.PrivateKey{})

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
}

func TestParseIgnoresUnknownChunks(t *testing.T) {
	master := testMasterKey()
	var raw []byte
	raw = append(raw, chunkBytes("LPAV", []byte("42"))...)
	raw = append(raw, chunkBytes("ENCU", []byte("user@example.com"))...)
	raw = append(raw, chunkBytes("CBCU", []byte("1"))...)

	v, err := Parse(raw, master, keys.PrivateKey{})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v.Version)
}

func TestParseAccount(t *testing.T) {
	master := testMasterKey()
	var raw []byte
	raw = append(raw, chunkBytes("LPAV", []byte("7"))...)
	raw = append(raw, chunkBytes("ACCT", accountPayload(t, master))...)

	v, err := Parse(raw, master, keys.PrivateKey{})
	require.NoError(t, err)
	require.Len(t, v.Accounts, 1)

	acct := v.Accounts[0]
	assert.Equal(t, models.ID("5496230974130180673"), acct.ID)
	assert.Equal(t, "My Bank", acct.Name)
	assert.Equal(t, "Finance\\Personal", acct.Group)
	assert.Equal(t, "https://bank.example.com", acct.URL)
	assert.Equal(t, "safe deposit box 42", acct.Note)
	assert.True(t, acct.Favourite)
	assert.Equal(t, "bob", acct.Username)
	assert.Equal(t, "hunter2", acct.Password)
	assert.False(t, acct.PasswordProtected)
	assert.Equal(t, "!YXR0YWNobWVudGtleQ==", acct.EncryptedAttachmentKey)
	assert.True(t, acct.AttachmentPresent)
	assert.Equal(t, "Generic", acct.NoteType)
	assert.Equal(t, "1584085522", acct.LastTouch)
	assert.Equal(t, "1584081322", acct.LastModified)
}

func TestParseTruncatedAccount(t *testing.T) {
	master := testMasterKey()
	payload := accountPayload(t, master)
	var raw []byte
	raw = append(raw, chunkBytes("LPAV", []byte("7"))...)
	raw = append(raw, chunkBytes("ACCT", payload[:len(payload)-20])...)

	_, err := Parse(raw, master, keys.PrivateKey{})

	var truncated *TruncatedError
	require.ErrorAs(t, err, &truncated)
	assert.NotEmpty(t, truncated.Field)
}

func TestParseAttachment(t *testing.T) {
	master := testMasterKey()
	var raw []byte
	raw = append(raw, chunkBytes("LPAV", []byte("7"))...)
	raw = append(raw, chunkBytes("ACCT", accountPayload(t, master))...)
	raw = append(raw, chunkBytes("ATTA", attachmentPayload("5496230974130180673"))...)

	v, err := Parse(raw, master, keys.PrivateKey{})
	require.NoError(t, err)
	require.Len(t, v.Accounts, 1)
	require.Len(t, v.Accounts[0].Attachments, 1)

	att := v.Accounts[0].Attachments[0]
	assert.Equal(t, models.ID("1120"), att.ID)
	assert.Equal(t, v.Accounts[0].ID, att.Parent)
	assert.Equal(t, "other:txt", att.MimeType)
	assert.Equal(t, "100000011220", att.StorageKey)
	assert.Equal(t, uint64(70), att.Size)
	assert.Equal(t, "!bm90IGEgcmVhbCBmaWxlbmFtZQ==", att.EncryptedFilename)
	assert.Equal(t, v.Attachments(), []models.Attachment{att})
}

func TestParseOrphanAttachment(t *testing.T) {
	master := testMasterKey()
	var raw []byte
	raw = append(raw, chunkBytes("LPAV", []byte("7"))...)
	raw = append(raw, chunkBytes("ATTA", attachmentPayload("does-not-exist"))...)

	_, err := Parse(raw, master, keys.PrivateKey{})

	var structural *StructuralError
	require.ErrorAs(t, err, &structural)
	assert.Contains(t, structural.Reason, "does-not-exist")
}

func TestParseFields(t *testing.T) {
	master := testMasterKey()
	var raw []byte
	raw = append(raw, chunkBytes("LPAV", []byte("7"))...)
	raw = append(raw, chunkBytes("ACCT", accountPayload(t, master))...)
	raw = append(raw, chunkBytes("ACFL", fieldPayload(t, master, "pin", "password", "0000", false))...)
	raw = append(raw, chunkBytes("ACOF", fieldPayload(t, master, "remember", "checkbox", "on", true))...)

	v, err := Parse(raw, master, keys.PrivateKey{})
	require.NoError(t, err)
	require.Len(t, v.Accounts, 1)
	require.Len(t, v.Accounts[0].Fields, 2)

	secret := v.Accounts[0].Fields[0]
	assert.Equal(t, "pin", secret.Name)
	assert.Equal(t, "password", secret.Type)
	assert.Equal(t, "0000", secret.Value)
	assert.False(t, secret.Checked)

	plain := v.Accounts[0].Fields[1]
	assert.Equal(t, "remember", plain.Name)
	assert.Equal(t, "checkbox", plain.Type)
	assert.Equal(t, "on", plain.Value)
	assert.True(t, plain.Checked)
}

func TestParseFieldBeforeAnyAccount(t *testing.T) {
	master := testMasterKey()
	var raw []byte
	raw = append(raw, chunkBytes("LPAV", []byte("7"))...)
	raw = append(raw, chunkBytes("ACFL", fieldPayload(t, master, "pin", "checkbox", "on", true))...)

	_, err := Parse(raw, master, keys.PrivateKey{})

	var structural *StructuralError
	require.ErrorAs(t, err, &structural)
}

func TestParseApp(t *testing.T) {
	master := testMasterKey()

	enc := func(s string) []byte { return encryptECB(t, master, s) }
	items := [][]byte{
		[]byte("884371804118706726"), // id
		[]byte(hex.EncodeToString([]byte(`C:\Program Files\putty.exe`))), // appname
		enc("extra notes"),        // extra
		enc("PuTTY"),              // name
		enc("SSH"),                // group
		[]byte("1584085522"),      // last_touch
		{},                        // fiid
		[]byte("0"),               // pwprotect
		[]byte("1"),               // fav
		[]byte("PuTTY Configuration"), // wintitle
		{},                        // wininfo
		[]byte("0.74"),            // exeversion
		[]byte("1"),               // autologin
		{},                        // warnversion
		[]byte("deadbeef"),        // exehash
	}
	var payload []byte
	for _, item := range items {
		payload = append(payload, itemBytes(item)...)
	}

	var raw []byte
	raw = append(raw, chunkBytes("LPAV", []byte("7"))...)
	raw = append(raw, chunkBytes("AACT", payload)...)

	v, err := Parse(raw, master, keys.PrivateKey{})
	require.NoError(t, err)
	require.NotNil(t, v.App)

	assert.Equal(t, models.ID("884371804118706726"), v.App.ID)
	assert.Equal(t, `C:\Program Files\putty.exe`, v.App.AppName)
	assert.Equal(t, "extra notes", v.App.Extra)
	assert.Equal(t, "PuTTY", v.App.Name)
	assert.Equal(t, "SSH", v.App.Group)
	assert.False(t, v.App.PasswordProtected)
	assert.True(t, v.App.Favourite)
	assert.Equal(t, "PuTTY Configuration", v.App.WindowTitle)
	assert.Equal(t, "0.74", v.App.ExeVersion)
	assert.True(t, v.App.Autologin)
	assert.Equal(t, "deadbeef", v.App.ExeHash)
}

func TestParseLocalMarker(t *testing.T) {
	master := testMasterKey()
	var raw []byte
	raw = append(raw, chunkBytes("LOCL", nil)...)
	raw = append(raw, chunkBytes("LPAV", []byte("7"))...)

	v, err := Parse(raw, master, keys.PrivateKey{})
	require.NoError(t, err)
	assert.True(t, v.Local)
}

func TestMarkLocal(t *testing.T) {
	master := testMasterKey()
	raw := chunkBytes("LPAV", []byte("7"))

	v, err := Parse(MarkLocal(raw), master, keys.PrivateKey{})
	require.NoError(t, err)
	assert.True(t, v.Local)
	assert.Equal(t, uint64(7), v.Version)
}

func TestParseShareChunk(t *testing.T) {
	master := testMasterKey()
	var raw []byte
	raw = append(raw, chunkBytes("LPAV", []byte("7"))...)
	raw = append(raw, chunkBytes("SHAR", []byte("opaque"))...)

	_, err := Parse(raw, master, keys.PrivateKey{})
	assert.True(t, errors.Is(err, ErrShareNotSupported))
}

func TestParseTruncatedTailAfterCompleteChunks(t *testing.T) {
	master := testMasterKey()
	var raw []byte
	raw = append(raw, chunkBytes("LPAV", []byte("7"))...)
	raw = append(raw, chunkBytes("ACCT", accountPayload(t, master))...)
	// Server cut the stream partway through the next header.
	raw = append(raw, 'A', 'C', 'C', 'T', 0x00)

	v, err := Parse(raw, master, keys.PrivateKey{})
	require.NoError(t, err)
	assert.Len(t, v.Accounts, 1)
}

func TestParseBadURLHex(t *testing.T) {
	master := testMasterKey()
	payload := accountPayload(t, master)

	// Rebuild the payload with a non-hex url in slot four.
	r := newRecordReader(payload, master)
	var rebuilt []byte
	rebuilt = append(rebuilt, itemBytes(r.item("id"))...)
	rebuilt = append(rebuilt, itemBytes(r.item("name"))...)
	rebuilt = append(rebuilt, itemBytes(r.item("group"))...)
	r.skip("url")
	rebuilt = append(rebuilt, itemBytes([]byte("zz not hex"))...)
	rebuilt = append(rebuilt, payload[r.pos:]...)

	var raw []byte
	raw = append(raw, chunkBytes("LPAV", []byte("7"))...)
	raw = append(raw, chunkBytes("ACCT", rebuilt)...)

	_, err := Parse(raw, master, keys.PrivateKey{})

	var value *ValueError
	require.ErrorAs(t, err, &value)
	assert.Equal(t, "url", value.Field)
}

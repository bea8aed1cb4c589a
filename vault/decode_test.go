package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordReaderStopsAtFirstError(t *testing.T) {
	master := testMasterKey()

	// One complete item, then nothing. The second read fails and every read
	// after it stays a no-op reporting the original field.
	payload := itemBytes([]byte("123"))
	r := newRecordReader(payload, master)

	assert.Equal(t, "123", r.str("id"))
	r.skip("name")
	r.skip("group")

	var truncated *TruncatedError
	require.ErrorAs(t, r.err, &truncated)
	assert.Equal(t, "name", truncated.Field)
}

func TestRecordReaderEmptyEncryptedItem(t *testing.T) {
	master := testMasterKey()

	r := newRecordReader(itemBytes(nil), master)
	assert.Equal(t, "", r.encrypted("note"))
	assert.NoError(t, r.err)
}

func TestRecordReaderUndecryptableItem(t *testing.T) {
	master := testMasterKey()

	// 5 bytes is not a whole AES block, so the cipher layer rejects it.
	r := newRecordReader(itemBytes([]byte("nope!")), master)
	r.encrypted("password")

	var decryptErr *DecryptError
	require.ErrorAs(t, r.err, &decryptErr)
	assert.Equal(t, "password", decryptErr.Field)
}

func TestRecordReaderBadUint(t *testing.T) {
	master := testMasterKey()

	r := newRecordReader(itemBytes([]byte("seventy")), master)
	r.uint("size")

	var value *ValueError
	require.ErrorAs(t, r.err, &value)
	assert.Equal(t, "size", value.Field)
}

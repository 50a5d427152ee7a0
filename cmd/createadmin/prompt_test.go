package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	i := 0
	readPassword = func(int) ([]byte, error) {
		pw := answers[i]
		i++
		return []byte(pw), nil
	}
}

func TestReadLine(t *testing.T) {
	var out bytes.Buffer
	got, err := readLine(bufio.NewReader(strings.NewReader("  admin@example.com \n")), &out, "Email")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", got)
	assert.Equal(t, "Email: ", out.String())

	got, err = readLine(bufio.NewReader(strings.NewReader("no-newline")), &out, "Email")
	require.NoError(t, err)
	assert.Equal(t, "no-newline", got)

	_, err = readLine(bufio.NewReader(strings.NewReader("")), &out, "Email")
	assert.Error(t, err)
}

func TestReadNewPassword(t *testing.T) {
	var out bytes.Buffer

	stubPasswords(t, "secret-password", "secret-password")
	pw, err := readNewPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, "secret-password", pw)

	stubPasswords(t, "secret-password", "other-password")
	_, err = readNewPassword(&out)
	assert.EqualError(t, err, "passwords do not match")
}

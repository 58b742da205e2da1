package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/accountdesk/internal/domain/model"
)

// useFileStorage points every command at a fresh file-backed store.
func useFileStorage(t *testing.T) {
	t.Helper()
	t.Setenv("ACCOUNTDESK_STORAGE", "file")
	t.Setenv("ACCOUNTDESK_DATA_DIR", t.TempDir())
}

func execute(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func mustAccounts(t *testing.T, args ...string) []accountView {
	t.Helper()
	out, errOut, code := execute(t, append(args, "--format", "json")...)
	require.Equal(t, 0, code, errOut)

	var views []accountView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	return views
}

func TestRun_ListEmpty(t *testing.T) {
	useFileStorage(t)

	views := mustAccounts(t, "list")

	assert.Empty(t, views)
}

func TestRun_CreatePersistsAcrossInvocations(t *testing.T) {
	useFileStorage(t)

	created := mustAccounts(t, "create")
	require.Len(t, created, 1)
	assert.Equal(t, "Local", created[0].Type)
	require.NotNil(t, created[0].Password)
	assert.Empty(t, *created[0].Password)

	listed := mustAccounts(t, "list")
	require.Len(t, listed, 1)
	assert.Equal(t, created[0].ID, listed[0].ID)
}

func TestRun_UpdateToLDAPClearsPassword(t *testing.T) {
	useFileStorage(t)
	id := mustAccounts(t, "create")[0].ID

	updated := mustAccounts(t, "update", id,
		"--type", "LDAP", "--login", "alice", "--password", "secret", "--labels", " ops; ;prod ")

	require.Len(t, updated, 1)
	assert.Equal(t, "LDAP", updated[0].Type)
	assert.Equal(t, "alice", updated[0].Login)
	assert.Nil(t, updated[0].Password)
	assert.Equal(t, []string{"ops", "prod"}, updated[0].Labels)

	listed := mustAccounts(t, "list")
	require.Len(t, listed, 1)
	assert.Nil(t, listed[0].Password)
}

func TestRun_UpdateKeepsUnsetFields(t *testing.T) {
	useFileStorage(t)
	id := mustAccounts(t, "create")[0].ID
	mustAccounts(t, "update", id, "--login", "bob", "--password", "pw", "--labels", "a;b")

	updated := mustAccounts(t, "update", id, "--login", "carol")

	require.Len(t, updated, 1)
	assert.Equal(t, "carol", updated[0].Login)
	require.NotNil(t, updated[0].Password)
	assert.Equal(t, "pw", *updated[0].Password)
	assert.Equal(t, []string{"a", "b"}, updated[0].Labels)
}

func TestRun_UpdateErrors(t *testing.T) {
	useFileStorage(t)
	id := mustAccounts(t, "create")[0].ID

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing account", args: []string{"update", "nope", "--login", "x"}, wantErr: "account nope not found"},
		{name: "invalid type", args: []string{"update", id, "--type", "Kerberos"}, wantErr: `invalid account type "Kerberos"`},
		{name: "missing id argument", args: []string{"update"}, wantErr: "accepts 1 arg(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOut, code := execute(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, errOut, tt.wantErr)
		})
	}
}

func TestRun_Delete(t *testing.T) {
	useFileStorage(t)
	keep := mustAccounts(t, "create")[0].ID
	drop := mustAccounts(t, "create")[0].ID

	_, errOut, code := execute(t, "delete", drop)
	require.Equal(t, 0, code, errOut)

	listed := mustAccounts(t, "list")
	require.Len(t, listed, 1)
	assert.Equal(t, keep, listed[0].ID)

	_, errOut, code = execute(t, "delete", drop)
	assert.Equal(t, 0, code, errOut)
}

func TestRun_Labels(t *testing.T) {
	tests := []struct {
		name   string
		format string
		input  string
		want   string
	}{
		{name: "table", format: "table", input: "a; b ;;c", want: "a\nb\nc\n"},
		{name: "json", format: "json", input: " x ;y", want: "[\n  \"x\",\n  \"y\"\n]\n"},
		{name: "json empty", format: "json", input: " ; ", want: "[]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut, code := execute(t, "labels", tt.input, "--format", tt.format)
			require.Equal(t, 0, code, errOut)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRun_YAMLOutput(t *testing.T) {
	useFileStorage(t)
	id := mustAccounts(t, "create")[0].ID
	mustAccounts(t, "update", id, "--type", "LDAP", "--login", "dave")

	out, errOut, code := execute(t, "list", "--format", "yaml")
	require.Equal(t, 0, code, errOut)

	var views []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "dave", views[0]["login"])
	assert.Nil(t, views[0]["password"])
}

func TestRun_TableMasksPasswords(t *testing.T) {
	useFileStorage(t)
	id := mustAccounts(t, "create")[0].ID
	mustAccounts(t, "update", id, "--login", "erin", "--password", "hunter2", "--labels", "a;b")

	out, errOut, code := execute(t, "list")
	require.Equal(t, 0, code, errOut)

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "erin")
	assert.Contains(t, out, "********")
	assert.Contains(t, out, "a; b")
	assert.NotContains(t, out, "hunter2")
}

func TestRun_InvalidFormat(t *testing.T) {
	_, errOut, code := execute(t, "labels", "a", "--format", "xml")

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, `invalid output format "xml"`)
}

func TestRun_InvalidStorageBackend(t *testing.T) {
	t.Setenv("ACCOUNTDESK_STORAGE", "s3")

	_, errOut, code := execute(t, "list")

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "unknown backend")
}

// vanishingStore finds the account once, accepts the update, then loses it,
// as when another process deletes it between the write and the re-read.
type vanishingStore struct {
	account model.Account
	gets    int
	updated []model.Account
}

func (v *vanishingStore) Get(string) (model.Account, bool) {
	v.gets++
	return v.account, v.gets == 1
}

func (v *vanishingStore) Update(_ context.Context, account model.Account) (bool, error) {
	v.updated = append(v.updated, account)
	return true, nil
}

func TestApplyUpdate_AccountDeletedBeforeReRead(t *testing.T) {
	store := &vanishingStore{account: model.Account{ID: "a1", Type: model.AccountTypeLocal, Password: model.StringPtr("")}}
	changed := func(name string) bool { return name == "login" }

	got, err := applyUpdate(context.Background(), store, "a1", updateFlags{login: "bob"}, changed)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "account a1 was deleted during update")
	assert.Equal(t, model.Account{}, got)
	require.Len(t, store.updated, 1)
	assert.Equal(t, "bob", store.updated[0].Login)
}

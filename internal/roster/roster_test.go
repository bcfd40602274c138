package roster

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lazypower/friendgrow/internal/dates"
	"github.com/lazypower/friendgrow/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

var opts = Options{
	DefaultFreqWeeks: 10,
	MaxFreqWeeks:     52,
	Today:            time.Date(2021, time.April, 20, 0, 0, 0, 0, time.UTC),
}

func TestEncodeDecode(t *testing.T) {
	seen := "2021-04-01"
	ros := FromFriends([]store.Friend{
		{Name: "alice", Location: "Lisbon", FreqWeeks: 2, LastSeen: &seen},
		{Name: "bob", FreqWeeks: 10},
	})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, ros))
	assert.Contains(t, buf.String(), "[[friend]]")
	assert.Contains(t, buf.String(), "last_seen = '2021-04-01'")

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, ros, got)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("[[friend]]\nname = 'x'\nbirthday = '2000-01-01'\n"))
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup", "friends.toml")
	ros := &Roster{Friends: []Record{{Name: "alice", FreqWeeks: 3}}}

	require.NoError(t, Save(path, ros))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ros, got)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestImport(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.InsertFriend(&store.Friend{Name: "alice", FreqWeeks: 2}))

	res, err := Import(db, []Record{
		{Name: "alice", FreqWeeks: 4},
		{Name: "bob", Location: "Porto", LastSeen: "2021-04-01"},
		{Name: "carol", FreqWeeks: 6},
	}, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "carol"}, res.Added)
	assert.Equal(t, []string{"alice"}, res.Skipped)

	alice, err := db.GetFriend("alice")
	require.NoError(t, err)
	assert.Equal(t, 2, alice.FreqWeeks, "existing friend must not be overwritten")

	bob, err := db.GetFriend("bob")
	require.NoError(t, err)
	assert.Equal(t, 10, bob.FreqWeeks, "default frequency applies")
	require.NotNil(t, bob.LastSeen)
	assert.Equal(t, "2021-04-01", *bob.LastSeen)
}

func TestImportValidatesBeforeWriting(t *testing.T) {
	tests := []struct {
		name string
		recs []Record
		want error
	}{
		{"bad date", []Record{{Name: "ok"}, {Name: "x", LastSeen: "2021-20-10"}}, dates.ErrDateFormat},
		{"frequency too big", []Record{{Name: "ok"}, {Name: "x", FreqWeeks: 53}}, dates.ErrFrequency},
		{"negative frequency", []Record{{Name: "ok"}, {Name: "x", FreqWeeks: -1}}, dates.ErrFrequency},
		{"seen in the future", []Record{{Name: "ok"}, {Name: "x", LastSeen: "2999-01-01"}}, dates.ErrSeenFuture},
		{"seen tomorrow", []Record{{Name: "ok"}, {Name: "x", LastSeen: "2021-04-21"}}, dates.ErrSeenFuture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testDB(t)
			_, err := Import(db, tt.recs, opts)
			assert.ErrorIs(t, err, tt.want)

			friends, err := db.ListFriends()
			require.NoError(t, err)
			assert.Empty(t, friends)
		})
	}
}

func TestImportRejectsMissingAndDuplicateNames(t *testing.T) {
	db := testDB(t)

	_, err := Import(db, []Record{{Name: ""}}, opts)
	assert.Error(t, err)

	_, err = Import(db, []Record{{Name: "a"}, {Name: "a"}}, opts)
	assert.ErrorContains(t, err, "duplicate")
}

func TestImportTrimsNames(t *testing.T) {
	db := testDB(t)

	_, err := Import(db, []Record{{Name: "  alice  "}, {Name: "alice"}}, opts)
	assert.ErrorContains(t, err, "duplicate")

	_, err = Import(db, []Record{{Name: "   "}}, opts)
	assert.ErrorContains(t, err, "missing name")

	res, err := Import(db, []Record{{Name: "  alice  ", Location: " Lisbon ", LastSeen: "2021-04-20"}}, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, res.Added)

	res, err = Import(db, []Record{{Name: "alice"}}, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, res.Skipped)

	friends, err := db.ListFriends()
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "Lisbon", friends[0].Location)
}

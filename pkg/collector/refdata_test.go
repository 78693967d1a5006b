package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagwatch/pkg/logger"
	"tagwatch/pkg/store"
)

// countingStore wraps a Store and counts collection reads
type countingStore struct {
	store.Store
	getAllCalls map[string]int
}

func newCountingStore(st store.Store) *countingStore {
	return &countingStore{Store: st, getAllCalls: make(map[string]int)}
}

func (c *countingStore) GetAll(collection string) ([]store.Document, error) {
	c.getAllCalls[collection]++
	return c.Store.GetAll(collection)
}

func seedOptions(t *testing.T, st store.Store, search, lastID string) {
	t.Helper()
	if search != "" {
		_, err := st.Add(store.CollectionOptions, map[string]interface{}{
			"name": store.OptionSearch, "value": search,
		})
		require.NoError(t, err)
	}
	if lastID != "" {
		_, err := st.Add(store.CollectionOptions, map[string]interface{}{
			"name": store.OptionLastResultID, "value": lastID,
		})
		require.NoError(t, err)
	}
}

func TestExtractHashtags(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "single hashtag",
			text:     "#golang",
			expected: []string{"golang"},
		},
		{
			name:     "multiple hashtags",
			text:     "#golang OR #gopher",
			expected: []string{"golang", "gopher"},
		},
		{
			name:     "case folded",
			text:     "#GoLang #UX",
			expected: []string{"golang", "ux"},
		},
		{
			name:     "hyphen and underscore",
			text:     "#go-lang #go_lang",
			expected: []string{"go-lang", "go_lang"},
		},
		{
			name:     "mid-word hash ignored",
			text:     "c#golang stays out, #real counts",
			expected: []string{"real"},
		},
		{
			name:     "no hashtags",
			text:     "plain query text",
			expected: []string{},
		},
		{
			name:     "empty",
			text:     "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractHashtags(tt.text))
		})
	}
}

func TestExtractHashtagsIdempotent(t *testing.T) {
	// Extracting from already-extracted tags yields the same tags.
	tags := ExtractHashtags("#GoLang #ux #go-lang")
	for _, tag := range tags {
		again := ExtractHashtags("#" + tag)
		assert.Equal(t, []string{tag}, again)
	}
}

func TestRefDataOptions(t *testing.T) {
	st := store.NewMemoryStore()
	seedOptions(t, st, "#golang OR #gopher", "42")

	rd := NewRefData(st, logger.NewTestLogger())

	opts, err := rd.Options()
	require.NoError(t, err)
	assert.Equal(t, "#golang OR #gopher", opts.Query)
	assert.Equal(t, []string{"golang", "gopher"}, opts.SearchHashtags)

	lastID, err := rd.LastResultID()
	require.NoError(t, err)
	assert.Equal(t, "42", lastID)
}

func TestRefDataOptionsMissingSearch(t *testing.T) {
	st := store.NewMemoryStore()
	rd := NewRefData(st, logger.NewTestLogger())

	_, err := rd.Options()
	assert.Error(t, err)
}

func TestRefDataLastResultIDUnset(t *testing.T) {
	st := store.NewMemoryStore()
	seedOptions(t, st, "#golang", "")

	rd := NewRefData(st, logger.NewTestLogger())

	lastID, err := rd.LastResultID()
	require.NoError(t, err)
	assert.Equal(t, "", lastID)
}

func TestRefDataLoadsOnce(t *testing.T) {
	st := store.NewMemoryStore()
	seedOptions(t, st, "#golang", "1")

	counting := newCountingStore(st)
	rd := NewRefData(counting, logger.NewTestLogger())

	for i := 0; i < 3; i++ {
		_, err := rd.Options()
		require.NoError(t, err)
		_, err = rd.LastResultID()
		require.NoError(t, err)
		_, err = rd.Blacklist()
		require.NoError(t, err)
		_, err = rd.Aliases()
		require.NoError(t, err)
	}

	assert.Equal(t, 1, counting.getAllCalls[store.CollectionOptions])
	assert.Equal(t, 1, counting.getAllCalls[store.CollectionBlacklist])
	assert.Equal(t, 1, counting.getAllCalls[store.CollectionAliases])
}

func TestRefDataUpdateLastResultID(t *testing.T) {
	t.Run("inserts when absent", func(t *testing.T) {
		st := store.NewMemoryStore()
		seedOptions(t, st, "#golang", "")

		rd := NewRefData(st, logger.NewTestLogger())
		require.NoError(t, rd.UpdateLastResultID("100"))

		// The cache observes the new value without a reload.
		lastID, err := rd.LastResultID()
		require.NoError(t, err)
		assert.Equal(t, "100", lastID)

		// The value is persisted.
		docs, err := st.FindByField(store.CollectionOptions, "name", store.OptionLastResultID)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "100", docs[0].String("value"))
	})

	t.Run("updates in place", func(t *testing.T) {
		st := store.NewMemoryStore()
		seedOptions(t, st, "#golang", "100")

		rd := NewRefData(st, logger.NewTestLogger())
		require.NoError(t, rd.UpdateLastResultID("200"))
		require.NoError(t, rd.UpdateLastResultID("300"))

		// No duplicate option documents accumulate.
		docs, err := st.FindByField(store.CollectionOptions, "name", store.OptionLastResultID)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "300", docs[0].String("value"))
	})
}

func TestRefDataBlacklist(t *testing.T) {
	st := store.NewMemoryStore()
	_, err := st.Add(store.CollectionBlacklist, map[string]interface{}{"username": "spammer"})
	require.NoError(t, err)
	_, err = st.Add(store.CollectionBlacklist, map[string]interface{}{"hashtag": "ad"})
	require.NoError(t, err)
	_, err = st.Add(store.CollectionBlacklist, map[string]interface{}{"hashtag": "spam", "username": "bot"})
	require.NoError(t, err)

	rd := NewRefData(st, logger.NewTestLogger())

	blacklist, err := rd.Blacklist()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ad", "spam"}, blacklist.Hashtags)
	assert.ElementsMatch(t, []string{"spammer", "bot"}, blacklist.Usernames)
}

func TestRefDataAliases(t *testing.T) {
	st := store.NewMemoryStore()
	_, err := st.Add(store.CollectionAliases, map[string]interface{}{"from": "ux", "hashtag": "userexperience"})
	require.NoError(t, err)
	_, err = st.Add(store.CollectionAliases, map[string]interface{}{"from": "js", "hashtag": "javascript"})
	require.NoError(t, err)

	rd := NewRefData(st, logger.NewTestLogger())

	aliases, err := rd.Aliases()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"ux": "userexperience",
		"js": "javascript",
	}, aliases)
}

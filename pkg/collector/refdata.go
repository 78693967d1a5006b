package collector

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"tagwatch/pkg/logger"
	"tagwatch/pkg/store"
)

// hashtagPattern matches a hashtag token at start-of-string or after
// whitespace: a '#' followed by word characters, digits, hyphen or
// underscore.
var hashtagPattern = regexp.MustCompile(`(?:^|\s)#([\w-]+)`)

// ExtractHashtags returns the hashtag tokens found in text, trimmed and
// case-folded, in order of appearance. Folding keeps variants like "ux"
// and "UX" from becoming distinct tags downstream.
func ExtractHashtags(text string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(text, -1)
	hashtags := make([]string, 0, len(matches))
	for _, match := range matches {
		hashtags = append(hashtags, strings.ToLower(strings.TrimSpace(match[1])))
	}
	return hashtags
}

// SearchOptions is the search configuration with its derived hashtag set
type SearchOptions struct {
	Query          string
	SearchHashtags []string
}

// Blacklist holds the identities and hashtags whose tweets are dropped
type Blacklist struct {
	Hashtags  []string
	Usernames []string
}

// optionEntry pairs an option value with the document it came from
type optionEntry struct {
	value  string
	doc    store.Document
	hasDoc bool
}

// RefData lazily loads and memoizes the reference datasets the pipeline
// consumes: search options, blacklist and hashtag aliases. Each dataset
// is read from the store at most once per RefData lifetime; the only
// write path is UpdateLastResultID, which refreshes the cache after a
// successful store write. Store failures propagate to the caller.
type RefData struct {
	store  store.Store
	logger logger.Logger

	mu             sync.Mutex
	options        map[string]optionEntry
	searchHashtags []string
	blacklist      *Blacklist
	aliases        map[string]string
}

// NewRefData creates a reference-data cache over the given store
func NewRefData(st store.Store, log logger.Logger) *RefData {
	if log == nil {
		log = logger.GetLogger()
	}
	return &RefData{
		store:  st,
		logger: log,
	}
}

// Options returns the search options, loading them on first use
func (r *RefData) Options() (SearchOptions, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureOptions(); err != nil {
		return SearchOptions{}, err
	}

	search, ok := r.options[store.OptionSearch]
	if !ok {
		return SearchOptions{}, fmt.Errorf("the %q option is not configured", store.OptionSearch)
	}

	return SearchOptions{
		Query:          search.value,
		SearchHashtags: r.searchHashtags,
	}, nil
}

// LastResultID returns the stored pagination boundary, or "" when no
// previous run has recorded one
func (r *RefData) LastResultID() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureOptions(); err != nil {
		return "", err
	}

	return r.options[store.OptionLastResultID].value, nil
}

// UpdateLastResultID persists the last-seen search result id. An
// existing option document is updated in place; otherwise a new one is
// inserted and its handle captured. The in-memory cache is refreshed
// after the write succeeds so reads in the same run observe the new
// value.
func (r *RefData) UpdateLastResultID(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureOptions(); err != nil {
		return err
	}

	entry, ok := r.options[store.OptionLastResultID]
	if ok && entry.hasDoc {
		if err := r.store.UpdateFields(entry.doc, map[string]interface{}{"value": id}); err != nil {
			return fmt.Errorf("failed to update %s: %w", store.OptionLastResultID, err)
		}
		entry.value = id
		r.options[store.OptionLastResultID] = entry
	} else {
		doc, err := r.store.Add(store.CollectionOptions, map[string]interface{}{
			"name":  store.OptionLastResultID,
			"value": id,
		})
		if err != nil {
			return fmt.Errorf("failed to insert %s: %w", store.OptionLastResultID, err)
		}
		r.options[store.OptionLastResultID] = optionEntry{value: id, doc: doc, hasDoc: true}
	}

	r.logger.DebugWithFields("last result id updated", map[string]interface{}{
		"last_result_id": id,
	})

	return nil
}

// ensureOptions loads the options collection once. Callers must hold mu.
func (r *RefData) ensureOptions() error {
	if r.options != nil {
		return nil
	}

	docs, err := r.store.GetAll(store.CollectionOptions)
	if err != nil {
		return fmt.Errorf("failed to load options: %w", err)
	}

	options := make(map[string]optionEntry)
	for _, doc := range docs {
		name := doc.String("name")
		if name == "" {
			continue
		}
		options[name] = optionEntry{
			value:  doc.String("value"),
			doc:    doc,
			hasDoc: true,
		}
	}

	r.options = options
	r.searchHashtags = ExtractHashtags(options[store.OptionSearch].value)

	r.logger.DebugWithFields("options loaded", map[string]interface{}{
		"count":           len(options),
		"search_hashtags": r.searchHashtags,
	})

	return nil
}

// Blacklist returns the blacklist, loading it on first use
func (r *RefData) Blacklist() (Blacklist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.blacklist != nil {
		return *r.blacklist, nil
	}

	docs, err := r.store.GetAll(store.CollectionBlacklist)
	if err != nil {
		return Blacklist{}, fmt.Errorf("failed to load blacklist: %w", err)
	}

	blacklist := &Blacklist{}
	for _, doc := range docs {
		if hashtag := doc.String("hashtag"); hashtag != "" {
			blacklist.Hashtags = append(blacklist.Hashtags, hashtag)
		}
		if username := doc.String("username"); username != "" {
			blacklist.Usernames = append(blacklist.Usernames, username)
		}
	}

	r.blacklist = blacklist

	r.logger.DebugWithFields("blacklist loaded", map[string]interface{}{
		"hashtags":  len(blacklist.Hashtags),
		"usernames": len(blacklist.Usernames),
	})

	return *blacklist, nil
}

// Aliases returns the alias table mapping hashtag variants to their
// canonical form, loading it on first use
func (r *RefData) Aliases() (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.aliases != nil {
		return r.aliases, nil
	}

	docs, err := r.store.GetAll(store.CollectionAliases)
	if err != nil {
		return nil, fmt.Errorf("failed to load aliases: %w", err)
	}

	aliases := make(map[string]string)
	for _, doc := range docs {
		from := doc.String("from")
		if from == "" {
			continue
		}
		aliases[from] = doc.String("hashtag")
	}

	r.aliases = aliases

	r.logger.DebugWithFields("aliases loaded", map[string]interface{}{
		"count": len(aliases),
	})

	return aliases, nil
}

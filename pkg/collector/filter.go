package collector

// FilterBlacklisted drops records authored by a blacklisted identity or
// tagged with a blacklisted hashtag. The result is an order-preserving
// subsequence of the input; kept records are not mutated.
func FilterBlacklisted(records []Record, blacklist Blacklist) []Record {
	usernames := make(map[string]struct{}, len(blacklist.Usernames))
	for _, username := range blacklist.Usernames {
		usernames[username] = struct{}{}
	}
	hashtags := make(map[string]struct{}, len(blacklist.Hashtags))
	for _, hashtag := range blacklist.Hashtags {
		hashtags[hashtag] = struct{}{}
	}

	kept := make([]Record, 0, len(records))
	for _, record := range records {
		if _, blocked := usernames[record.Post.Username]; blocked {
			continue
		}
		if anyTagIn(record.Hashtags, hashtags) {
			continue
		}
		kept = append(kept, record)
	}

	return kept
}

func anyTagIn(tags []string, set map[string]struct{}) bool {
	for _, tag := range tags {
		if _, ok := set[tag]; ok {
			return true
		}
	}
	return false
}

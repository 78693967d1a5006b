package collector

// NormalizeHashtags rewrites each record's hashtag list by substituting
// canonical forms per the alias table, then deduplicates preserving
// first-occurrence order. Multiple source hashtags may alias to the same
// canonical tag and collapse to one entry. The output has the same
// length and order as the input.
func NormalizeHashtags(records []Record, aliases map[string]string) []Record {
	normalized := make([]Record, len(records))
	for i, record := range records {
		seen := make(map[string]struct{}, len(record.Hashtags))
		hashtags := make([]string, 0, len(record.Hashtags))
		for _, hashtag := range record.Hashtags {
			if canonical, ok := aliases[hashtag]; ok {
				hashtag = canonical
			}
			if _, dup := seen[hashtag]; dup {
				continue
			}
			seen[hashtag] = struct{}{}
			hashtags = append(hashtags, hashtag)
		}

		normalized[i] = record
		normalized[i].Hashtags = hashtags
	}

	return normalized
}

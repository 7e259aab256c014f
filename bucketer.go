package main

import "strings"

const (
	channelOnline   = "online"
	channelInPerson = "in_person"
)

// bucketKeys returns the matching-pool keys a candidate belongs to. A BOTH
// member can appear in two buckets; an in-person member without a home
// location is silently left out of the in-person channel.
func bucketKeys(c *Candidate) []string {
	var keys []string
	if c.Mode == ModeOnline || c.Mode == ModeBoth {
		keys = append(keys, channelOnline+"|"+c.Timezone)
	}
	if c.inPersonCapable() && c.City != nil {
		keys = append(keys, channelInPerson+"|"+c.City.Name+","+c.City.Country)
	}
	return keys
}

// bucketChannel extracts the channel part of a bucket key.
func bucketChannel(key string) string {
	if i := strings.IndexByte(key, '|'); i >= 0 {
		return key[:i]
	}
	return key
}

// bucketCandidates partitions the eligible pool into independent matching
// pools keyed by channel and locale. The returned slices alias the input
// slice; callers must treat candidates as read-only from here on.
func bucketCandidates(candidates []Candidate) map[string][]*Candidate {
	buckets := make(map[string][]*Candidate)
	for i := range candidates {
		c := &candidates[i]
		for _, key := range bucketKeys(c) {
			buckets[key] = append(buckets[key], c)
		}
	}
	return buckets
}

package ingest

import "fmt"

// Group is a set of documents destined for one collection. Name is the
// raw (pre-normalization) collection name.
type Group struct {
	Name      string
	Documents []Document
}

// Assign partitions documents into collection groups.
//
// Documents with WordCount >= minWords each get their own group named
// by the document ID. The remaining small documents are paired in
// discovery order, (0,1), (2,3) and so on, into groups named
// combined_<id0>_<id1>; an odd leftover becomes a singleton named by
// its own ID. Input order is preserved throughout, no reordering by
// size or name.
func Assign(documents []Document, minWords int) []Group {
	var large, small []Document
	for _, doc := range documents {
		if doc.WordCount >= minWords {
			large = append(large, doc)
		} else {
			small = append(small, doc)
		}
	}

	groups := make([]Group, 0, len(large)+(len(small)+1)/2)
	for _, doc := range large {
		groups = append(groups, Group{Name: doc.ID, Documents: []Document{doc}})
	}

	for i := 0; i < len(small); i += 2 {
		if i+1 < len(small) {
			pair := small[i : i+2]
			groups = append(groups, Group{
				Name:      fmt.Sprintf("combined_%s_%s", pair[0].ID, pair[1].ID),
				Documents: []Document{pair[0], pair[1]},
			})
		} else {
			groups = append(groups, Group{Name: small[i].ID, Documents: []Document{small[i]}})
		}
	}

	return groups
}

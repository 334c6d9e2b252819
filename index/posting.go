package index

// PostingEntry records one row of the corpus matrix that contains a term,
// with the term's L2-normalised TF-IDF weight in that row.
type PostingEntry struct {
	Row    uint32  // Position of the document in the snapshot's corpus order
	Weight float64 // TF-IDF weight after row normalisation
}

// PostingList is a slice of PostingEntry, sorted by Row ascending.
// Build appends rows in corpus order, so no explicit sort is needed.
type PostingList []PostingEntry

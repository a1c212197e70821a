// Package reembed recomputes the embeddings of every stored listing.
//
// Run it after switching embedding models or changing how listing text is
// composed. Listings are paged in ID order, embedded in batches with retry
// and exponential backoff, normalized to unit length and written back.
// Progress is checkpointed after each batch so an interrupted run can
// resume where it stopped.
package reembed

// Package ingestion loads housing listings, embeds them and stores them in
// the listing index.
//
// The Pipeline composes an embedding text for each listing, embeds batches
// concurrently on a worker pool, throttles embedding calls, and writes the
// embedded listings to storage. Seed files may be JSON or YAML and may hold
// bare listings or landlord/complex/listing records.
package ingestion

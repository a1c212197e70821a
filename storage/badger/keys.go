package badger

import (
	"encoding/binary"
	"time"
)

// Key prefixes for different data types
const (
	listingPrefix    = "lst:"
	chatPrefix       = "chat:"
	chatIDSeq        = "chatseq"
	favoritePrefix   = "fav:"
	inquiryPrefix    = "inq:"
	inquiryIDSeq     = "inqseq"
	tracePrefix      = "trc:"
	counterPrefix    = "ctr:"
	checkpointPrefix = "chk:"
)

// keySep separates an identity from the rest of a composite key.
// Identities such as "whatsapp:254700000000" contain ':' so it can't be used.
const keySep = 0x00

func makeListingKey(id string) []byte {
	return []byte(listingPrefix + id)
}

// makeIdentityPrefix generates the scan prefix for one identity's records.
// Format: prefix identity 0x00
func makeIdentityPrefix(prefix, identity string) []byte {
	buf := make([]byte, 0, len(prefix)+len(identity)+1)
	buf = append(buf, prefix...)
	buf = append(buf, identity...)
	return append(buf, keySep)
}

// makeChatKey generates a composite key for a chat exchange.
// Format: prefix identity 0x00 timestamp id
func makeChatKey(identity string, createdAt time.Time, id uint64) []byte {
	buf := makeIdentityPrefix(chatPrefix, identity)
	// Write in BigEndian order so lexicographic sort works correctly
	buf = binary.BigEndian.AppendUint64(buf, uint64(createdAt.UnixMicro()))
	return binary.BigEndian.AppendUint64(buf, id)
}

// makeFavoriteKey generates a composite key for a favorite.
// Format: prefix identity 0x00 listingID
func makeFavoriteKey(identity, listingID string) []byte {
	return append(makeIdentityPrefix(favoritePrefix, identity), listingID...)
}

// makeInquiryKey generates a composite key for an inquiry.
// Format: prefix identity 0x00 id
func makeInquiryKey(identity string, id uint64) []byte {
	return binary.BigEndian.AppendUint64(makeIdentityPrefix(inquiryPrefix, identity), id)
}

func makeTraceKey(traceID string) []byte {
	return []byte(tracePrefix + traceID)
}

func makeCounterKey(key string) []byte {
	return []byte(counterPrefix + key)
}

func makeCheckpointKey(processorType string) []byte {
	return []byte(checkpointPrefix + processorType)
}

// prefixEnd returns the smallest key greater than every key starting with prefix.
// Used to seek reverse iterators to the end of a prefix range.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

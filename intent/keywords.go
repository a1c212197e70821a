package intent

// KeywordsVersion identifies the revision of the override tables below.
const KeywordsVersion = "2025.1"

// RentKeywords turn a fallback classification into a search when any of
// them occurs as a substring of the lower-cased text.
var RentKeywords = []string{"rent", "bedsitter", "room"}

// SaveCommandPrefixes force save_listing when the lower-cased text starts with one of them.
var SaveCommandPrefixes = []string{"save "}

// InquiryPrefixes force create_inquiry when the lower-cased text starts with one of them.
var InquiryPrefixes = []string{"inquire"}

// ViewingPhrases force create_inquiry when they occur anywhere in the lower-cased text.
var ViewingPhrases = []string{"book viewing"}

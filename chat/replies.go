package chat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/poiesic/rina/core"
)

// Fixed reply texts.
const (
	EmptyTextReply = "Hi — how can I help you find housing today?"

	GreetingEnglish = "Hi! I can help you find student housing — tell me the area, budget, and room type."
	GreetingSwahili = "Habari! Ninaweza kukusaidia kutafuta nyumba au kupeleka ujumbe kwa mwenye nyumba. Unaambiwa nini?"

	SearchHeaderEnglish = "Here are some of the listings I found:"
	SearchHeaderSwahili = "Hapa kuna baadhi ya matoleo niliyopata:"

	SearchFooterEnglish = "\nReply with 'save <ID>' to save a listing, or 'more' to see more options."
	SearchFooterSwahili = "\nJibu 'save <ID>' kuhifadhi listing, au 'zaidi' kuona zaidi."

	NoMatchesEnglish = "😔 Sorry, I couldn't find any matching listings right now. Can I broaden the search or notify you when something appears?"
	NoMatchesSwahili = "😔 Samahani, sina matoleo yanayolingana kwa sasa. Je, nitafute eneo pana zaidi au nikujulishe kitu kikitokea?"

	SaveNoIDReply   = "I couldn't find a listing ID in your message. Reply with 'save <LISTING_ID>'."
	SaveFailedReply = "Sorry, I couldn't save that listing right now. Please try later."

	InquiryNoIDReply       = "Please include the listing ID you want to inquire about (reply with the ID)."
	InquiryFailedReply     = "Sorry, I couldn't create the inquiry right now. Try again later."
	DefaultInquiryMessage  = "Hi, I am interested in this listing. Please contact me."
	FallbackApologyReply   = "Sorry, I'm having trouble right now. Can I help you find a room or save a listing?"
	throttleReplyFormat    = "⏳ You're sending messages too quickly. Please wait %d seconds and try again."
	saveOKReplyFormat      = "✅ Saved listing %s to your favorites."
	inquiryOKReplyFormat   = "✅ Your inquiry for listing %s has been submitted. The landlord will get back to you."
	fallbackSystemPrompt   = "You are RINA, a helpful assistant for student housing in Nairobi."
	fallbackPromptTemplate = "You are RINA, a Kenyan student housing assistant. The user said: '%s'. Give a concise helpful reply in the user's language (%s)."
)

func greeting(lang core.LanguageTag) string {
	if lang.IsSwahiliFamily() {
		return GreetingSwahili
	}
	return GreetingEnglish
}

func noMatches(lang core.LanguageTag) string {
	if lang.IsSwahiliFamily() {
		return NoMatchesSwahili
	}
	return NoMatchesEnglish
}

func throttleReply(seconds int) string {
	return fmt.Sprintf(throttleReplyFormat, seconds)
}

// FormatListing renders one listing as a chat card.
func FormatListing(l *core.Listing) string {
	title := l.Title
	if title == "" {
		title = "(no title)"
	}
	lines := []string{"🏠 " + title}
	if l.Location != "" {
		lines = append(lines, "📍 "+l.Location)
	}
	if l.Price != nil && *l.Price != 0 {
		lines = append(lines, "💰 KES "+strconv.FormatFloat(*l.Price, 'f', -1, 64))
	}
	if l.RoomType != "" {
		lines = append(lines, "🛏 "+l.RoomType)
	}
	contact := l.Contact
	if contact == "" {
		contact = "No contact"
	}
	lines = append(lines, "📞 "+contact)
	lines = append(lines, "🔖 ID: "+l.ID)
	return strings.Join(lines, "\n")
}

// FormatSearchReply renders up to limit ranked listings with a header and footer
// in the sender's language.
func FormatSearchReply(results []core.RankedResult, lang core.LanguageTag, limit int) string {
	header, footer := SearchHeaderEnglish, SearchFooterEnglish
	if lang.IsSwahiliFamily() {
		header, footer = SearchHeaderSwahili, SearchFooterSwahili
	}

	pieces := []string{header}
	for i, r := range results {
		if i == limit {
			break
		}
		pieces = append(pieces, FormatListing(r.Listing))
	}
	pieces = append(pieces, footer)
	return strings.Join(pieces, "\n\n")
}

package chat

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/poiesic/rina/ai"
	"github.com/poiesic/rina/core"
	"github.com/poiesic/rina/search"
)

const fallbackMaxTokens = 250

const fallbackTemperature = 0.7

// listingIDPattern matches listing references in save and inquiry commands.
var listingIDPattern = regexp.MustCompile(`[0-9a-fA-F-]{8,}`)

// branchResult is what a branch hands back to respond.
type branchResult struct {
	text    string
	outcome Outcome
	err     error
}

func okResult(text string) branchResult {
	return branchResult{text: text, outcome: OutcomeOK}
}

func degradedResult(text string, err error) branchResult {
	return branchResult{text: text, outcome: OutcomeDegraded, err: err}
}

func failedResult(text string, err error) branchResult {
	return branchResult{text: text, outcome: OutcomeFailed, err: err}
}

func (o *Orchestrator) runBranch(ctx context.Context, identity, text string, lang core.LanguageTag, branch core.IntentLabel) branchResult {
	switch branch {
	case core.IntentSearchListings:
		return o.searchListings(ctx, text, lang)
	case core.IntentSaveListing:
		return o.saveListing(ctx, identity, text)
	case core.IntentCreateInquiry:
		return o.createInquiry(ctx, identity, text)
	case core.IntentGreeting:
		return okResult(greeting(lang))
	default:
		return o.fallback(ctx, text, lang)
	}
}

func (o *Orchestrator) searchListings(ctx context.Context, text string, lang core.LanguageTag) branchResult {
	constraints := search.ExtractConstraints(text)

	callCtx, cancel := o.callContext(ctx)
	defer cancel()

	candidates, err := o.retriever.Retrieve(callCtx, text, o.topK)
	if err != nil {
		return degradedResult(noMatches(lang), fmt.Errorf("retrieve: %w", err))
	}

	ranked := search.Rerank(candidates, constraints, o.topK)
	if len(ranked) == 0 {
		return degradedResult(noMatches(lang), ErrNoMatches)
	}
	return okResult(FormatSearchReply(ranked, lang, DisplayLimit))
}

func (o *Orchestrator) saveListing(ctx context.Context, identity, text string) branchResult {
	listingID := listingIDPattern.FindString(text)
	if listingID == "" {
		return degradedResult(SaveNoIDReply, ErrNoListingID)
	}
	if o.favorites == nil {
		return failedResult(SaveFailedReply, fmt.Errorf("favorites: %w", ErrStoreUnavailable))
	}

	callCtx, cancel := o.callContext(ctx)
	defer cancel()

	if err := o.favorites.SaveFavorite(callCtx, identity, listingID); err != nil {
		persistenceFailures.WithLabelValues("favorite").Inc()
		return failedResult(SaveFailedReply, fmt.Errorf("save favorite: %w", err))
	}
	return okResult(fmt.Sprintf(saveOKReplyFormat, listingID))
}

func (o *Orchestrator) createInquiry(ctx context.Context, identity, text string) branchResult {
	loc := listingIDPattern.FindStringIndex(text)
	if loc == nil {
		return degradedResult(InquiryNoIDReply, ErrNoListingID)
	}
	listingID := text[loc[0]:loc[1]]

	message := strings.TrimSpace(text[loc[1]:])
	if message == "" {
		message = DefaultInquiryMessage
	}

	if o.inquiries == nil {
		return failedResult(InquiryFailedReply, fmt.Errorf("inquiries: %w", ErrStoreUnavailable))
	}

	callCtx, cancel := o.callContext(ctx)
	defer cancel()

	err := o.inquiries.CreateInquiry(callCtx, &core.Inquiry{
		Identity:  identity,
		ListingID: listingID,
		Message:   message,
	})
	if err != nil {
		persistenceFailures.WithLabelValues("inquiry").Inc()
		return failedResult(InquiryFailedReply, fmt.Errorf("create inquiry: %w", err))
	}
	return okResult(fmt.Sprintf(inquiryOKReplyFormat, listingID))
}

func (o *Orchestrator) fallback(ctx context.Context, text string, lang core.LanguageTag) branchResult {
	callCtx, cancel := o.callContext(ctx)
	defer cancel()

	resp, err := o.completer.Complete(callCtx, ai.CompletionRequest{
		Messages: []ai.ChatMessage{
			ai.System(fallbackSystemPrompt),
			ai.User(fmt.Sprintf(fallbackPromptTemplate, text, lang)),
		},
		MaxTokens:   fallbackMaxTokens,
		Temperature: fallbackTemperature,
	})
	if err != nil {
		return failedResult(FallbackApologyReply, fmt.Errorf("fallback completion: %w", err))
	}

	resp = strings.TrimSpace(resp)
	if resp == "" {
		return failedResult(FallbackApologyReply, ErrEmptyCompletion)
	}
	return okResult(resp)
}

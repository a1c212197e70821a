// Package lang tags inbound messages with a language.
//
// Detection runs in two passes. A static Sheng lexicon is checked first and
// always wins: slang markers such as "msee" or "keja" are unambiguous for
// this domain, while a statistical model would misread them as Swahili or
// English. Text without a slang marker goes to a statistical pass whose
// output is mapped onto core.LanguageTag.
//
// Lexicon entries are matched against whitespace-separated tokens. Most
// entries are single words and must equal a token exactly. Multi-word
// entries such as "bed moja" match the same words as consecutive tokens;
// a plain token lookup could never hit them, which would leave them as dead
// entries in the table.
//
// Detector.Detect never fails. Empty text, an undetermined result, or a
// panic inside the statistical pass all yield core.LanguageOther.
package lang

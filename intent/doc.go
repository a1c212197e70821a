// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package intent decides which branch handles an inbound message.

Routing combines two signals. A Classifier asks a language model for one of
the five canonical labels using a short few-shot prompt. Rules then applies
deterministic textual overrides on top of the classifier's answer, evaluated
in order with the first match winning:

 1. search_listings, or fallback with a rent keyword in the text
 2. save_listing, or text starting with a save command
 3. create_inquiry, or text starting with an inquiry keyword or containing a viewing phrase
 4. greeting
 5. fallback

# Confidence

The classifier does not compute a probability. Confidence is a fixed
constant per outcome class: ConfidenceCanonical when the model returned a
canonical label, ConfidenceUnknownLabel when it returned anything else, and
ConfidenceFailed when the call or the response failed. Treat it as a tag,
not a calibrated score.
*/
package intent

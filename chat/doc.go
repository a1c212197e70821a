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
Package chat answers one inbound message at a time.

An Orchestrator admits the message through the rate limiter, detects its
language and routes its intent concurrently, then dispatches to one of five
branches:

  - search_listings: retrieve, rerank and format up to three listings
  - save_listing: save the referenced listing to the sender's favorites
  - create_inquiry: forward a message to the listing's landlord
  - greeting: a fixed welcome in the sender's language
  - fallback: a single short completion with the RINA persona

Every branch returns a user-visible reply. Failures of the classifier,
retriever, completer or stores become an Outcome on the Reply and are logged
once here. The chat log is written in the background and never delays or
changes the reply.

HandleTraced wraps the same flow in a plan, act, critique, decision trace.
*/
package chat

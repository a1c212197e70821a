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

// Package server exposes the assistant over HTTP.
//
// Routes:
//
//	POST /api/chat               JSON {user_id, message}; answered on the traced path
//	POST /webhook                form fields From and Body; plain-text reply
//	POST /api/listings           admin listing upload, bearer ADMIN_API_KEY
//	GET  /api/traces/{id}        stored reasoning trace
//	GET  /api/favorites/{identity}
//	GET  /health
//	GET  /metrics                Prometheus exposition
//
// Webhook signature verification is not performed here; put the server
// behind a gateway that does it.
package server

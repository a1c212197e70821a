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

// Package search retrieves housing listings by semantic similarity and reranks
// them against the user's explicit constraints.
//
// Retrieval embeds the query once and makes a single similarity request to the
// vector index; the index's order is kept as-is. Reranking is a pure additive
// heuristic on top of the retrieval similarity:
//
//	score = similarity
//	      + PropertyTypeBoost                         (property type substring match)
//	      + PriceBoost * max(0, 1 - |price-max|/(max+1))  (price near the budget)
//	      + FurnishingBoost                           (furnishing substring match)
//	      + rating / RatingDivisor                    (neighborhood rating, 0-10)
//
// The rating term can reach +1.0 and outweighs every other boost. It is kept for
// compatibility with existing rankings and is a known calibration problem.
package search

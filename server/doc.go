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


// Package server exposes directory search over HTTP with gin.
//
// Routes:
//
//	GET /healthz
//	GET /api/search?q=...
//	GET /api/suggestions
//	GET /api/zip/:zip
//	GET /api/category/:category
//	GET /api/affiliation/:affiliation
//	GET /api/recommendations?pref=family&pref=youth
//
// Every response carries an X-Request-ID header; a client-supplied value is
// echoed back.
package server

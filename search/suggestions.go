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


package search

import "slices"

var suggestions = []string{
	"Orthodox synagogue with youth programs",
	"Reform temple with Hebrew school",
	"Conservative synagogue near me",
	"Chabad house with family programs",
	"Jewish day school",
	"Hillel at university",
	"Synagogue with online services",
	"Jewish community center",
	"Adult education classes",
	"Bar/Bat Mitzvah preparation",
}

// Suggestions returns example queries for an empty search box.
func Suggestions() []string {
	return slices.Clone(suggestions)
}

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


package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/kehilla/directory"
	"github.com/poiesic/kehilla/search"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) search(c *gin.Context) {
	res, err := s.backend.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		s.logger.Warn("search aborted", "err", err, requestIDKey, c.GetString(requestIDKey))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newSearchResponse(res))
}

func (s *Server) suggestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"suggestions": search.Suggestions()})
}

func (s *Server) zip(c *gin.Context) {
	c.JSON(http.StatusOK, newListResponse(zipJSON(s.backend.NearbyZip(c.Param("zip")))))
}

func (s *Server) category(c *gin.Context) {
	list, err := s.backend.ByCategory(c.Param("category"))
	if errors.Is(err, directory.ErrUnknownCategory) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newListResponse(listJSON(list)))
}

func (s *Server) affiliation(c *gin.Context) {
	c.JSON(http.StatusOK, newListResponse(listJSON(s.backend.ByAffiliation(c.Param("affiliation")))))
}

func (s *Server) recommendations(c *gin.Context) {
	c.JSON(http.StatusOK, newListResponse(listJSON(s.backend.Recommend(c.QueryArray("pref")))))
}

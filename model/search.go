/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package model

import (
	"fmt"
	"strings"
)

// SearchCondition holds the optional member search criteria. A nil field
// places no constraint on its dimension.
type SearchCondition struct {
	Username *string `json:"username,omitempty"`
	TeamName *string `json:"teamName,omitempty"`
	AgeGoe   *int    `json:"ageGoe,omitempty"`
	AgeLoe   *int    `json:"ageLoe,omitempty"`
}

func (c SearchCondition) IsEmpty() bool {
	return c.Username == nil && c.TeamName == nil && c.AgeGoe == nil && c.AgeLoe == nil
}

func (c SearchCondition) String() string {
	var parts []string
	if c.Username != nil {
		parts = append(parts, "username="+*c.Username)
	}
	if c.TeamName != nil {
		parts = append(parts, "teamName="+*c.TeamName)
	}
	if c.AgeGoe != nil {
		parts = append(parts, fmt.Sprintf("ageGoe=%d", *c.AgeGoe))
	}
	if c.AgeLoe != nil {
		parts = append(parts, fmt.Sprintf("ageLoe=%d", *c.AgeLoe))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// MemberTeam is the flattened member LEFT JOIN team projection.
type MemberTeam struct {
	MemberID int64   `bun:"member_id" json:"memberId"`
	Username string  `bun:"username" json:"username"`
	Age      int     `bun:"age" json:"age"`
	TeamID   *int64  `bun:"team_id" json:"teamId"`
	TeamName *string `bun:"team_name" json:"teamName"`
}

// ToMemberTeam flattens a member whose team relation has been loaded.
func ToMemberTeam(m *Member) *MemberTeam {
	row := &MemberTeam{MemberID: m.ID, Username: m.Username, Age: m.Age}
	if m.Team != nil {
		id, name := m.Team.ID, m.Team.Name
		row.TeamID = &id
		row.TeamName = &name
	} else if m.TeamID != nil {
		id := *m.TeamID
		row.TeamID = &id
	}
	return row
}

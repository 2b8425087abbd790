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

	"github.com/uptrace/bun"
)

// Member is a team member. An empty Username is stored as NULL.
type Member struct {
	bun.BaseModel `bun:"table:members,alias:member"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Username string `bun:"username,nullzero" json:"username"`
	Age      int    `bun:"age,notnull" json:"age"`
	TeamID   *int64 `bun:"team_id" json:"teamId,omitempty"`
	Team     *Team  `bun:"rel:belongs-to,join:team_id=id" json:"team,omitempty"`
}

// NewMember creates a member and, when team is not nil, joins it.
func NewMember(username string, age int, team *Team) *Member {
	m := &Member{Username: username, Age: age}
	if team != nil {
		m.ChangeTeam(team)
	}
	return m
}

// ChangeTeam moves the member to team, keeping both sides of the relation
// in sync. The team must already be persisted for TeamID to be meaningful.
func (m *Member) ChangeTeam(team *Team) {
	if m.Team != nil && m.Team != team {
		m.Team.removeMember(m)
	}
	m.Team = team
	if team == nil {
		m.TeamID = nil
		return
	}
	id := team.ID
	m.TeamID = &id
	for _, existing := range team.Members {
		if existing == m {
			return
		}
	}
	team.Members = append(team.Members, m)
}

func (t *Team) removeMember(m *Member) {
	for i, existing := range t.Members {
		if existing == m {
			t.Members = append(t.Members[:i], t.Members[i+1:]...)
			return
		}
	}
}

func (m *Member) String() string {
	return fmt.Sprintf("Member(id=%d, username=%s, age=%d)", m.ID, m.Username, m.Age)
}

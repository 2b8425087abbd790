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

package condition

import "github.com/tomoncle/roster/model"

// UsernameEq returns member.username = username, or nil when absent.
func UsernameEq(username *string) *Condition {
	if username == nil {
		return nil
	}
	return newCondition(Username, Eq, *username)
}

// TeamNameEq returns team.name = teamName, or nil when absent.
func TeamNameEq(teamName *string) *Condition {
	if teamName == nil {
		return nil
	}
	return newCondition(TeamName, Eq, *teamName)
}

// AgeGoe returns member.age >= age, or nil when absent.
func AgeGoe(age *int) *Condition {
	if age == nil {
		return nil
	}
	return newCondition(Age, Goe, *age)
}

// AgeLoe returns member.age <= age, or nil when absent.
func AgeLoe(age *int) *Condition {
	if age == nil {
		return nil
	}
	return newCondition(Age, Loe, *age)
}

// ComposeList builds the filter for c by passing every optional condition to
// All at once.
func ComposeList(c model.SearchCondition) Filter {
	return All(
		UsernameEq(c.Username),
		TeamNameEq(c.TeamName),
		AgeGoe(c.AgeGoe),
		AgeLoe(c.AgeLoe),
	)
}

// ComposeIncremental builds the same filter as ComposeList, starting from
// MatchAll and narrowing it once per present criterion.
func ComposeIncremental(c model.SearchCondition) Filter {
	f := MatchAll()
	if c.Username != nil {
		f = f.And(UsernameEq(c.Username))
	}
	if c.TeamName != nil {
		f = f.And(TeamNameEq(c.TeamName))
	}
	if c.AgeGoe != nil {
		f = f.And(AgeGoe(c.AgeGoe))
	}
	if c.AgeLoe != nil {
		f = f.And(AgeLoe(c.AgeLoe))
	}
	return f
}

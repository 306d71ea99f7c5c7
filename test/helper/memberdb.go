/*
 * Copyright 2026 The Roster Authors. All rights reserved.
 *
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
package helper

import (
	"fmt"

	"github.com/hashicorp/go-memdb"

	"github.com/roster-team/roster/api/types"
)

const tblMembers = "members"

var memberSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tblMembers: {
			Name: tblMembers,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
				"seq": {
					Name:    "seq",
					Unique:  true,
					Indexer: &memdb.UintFieldIndex{Field: "Seq"},
				},
			},
		},
	},
}

// memberRecord is a stored member. Seq orders members by creation.
type memberRecord struct {
	ID     string
	Seq    uint64
	Member *types.Member
}

// memberDB is the in-memory member table of the fake API.
type memberDB struct {
	db *memdb.MemDB
}

func newMemberDB() (*memberDB, error) {
	db, err := memdb.NewMemDB(memberSchema)
	if err != nil {
		return nil, fmt.Errorf("new memdb: %w", err)
	}

	return &memberDB{db: db}, nil
}

func (d *memberDB) insert(seq uint64, member *types.Member) error {
	txn := d.db.Txn(true)
	defer txn.Abort()

	if err := txn.Insert(tblMembers, &memberRecord{
		ID:     member.ID,
		Seq:    seq,
		Member: member.DeepCopy(),
	}); err != nil {
		return fmt.Errorf("insert member: %w", err)
	}

	txn.Commit()
	return nil
}

// find returns a copy of the member of the given id, or nil.
func (d *memberDB) find(id string) *types.Member {
	txn := d.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tblMembers, "id", id)
	if err != nil || raw == nil {
		return nil
	}
	return raw.(*memberRecord).Member.DeepCopy()
}

// update replaces the member of the given id with fn applied to a copy of
// it. It returns a copy of the stored result, or false when there is no such
// member.
func (d *memberDB) update(id string, fn func(*types.Member) *types.Member) (*types.Member, bool, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tblMembers, "id", id)
	if err != nil {
		return nil, false, fmt.Errorf("find member by id: %w", err)
	}
	if raw == nil {
		return nil, false, nil
	}

	record := raw.(*memberRecord)
	updated := fn(record.Member.DeepCopy())
	if err := txn.Insert(tblMembers, &memberRecord{
		ID:     record.ID,
		Seq:    record.Seq,
		Member: updated,
	}); err != nil {
		return nil, false, fmt.Errorf("update member: %w", err)
	}

	txn.Commit()
	return updated.DeepCopy(), true, nil
}

// delete removes the member of the given id. It returns false when there is
// no such member.
func (d *memberDB) delete(id string) (bool, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tblMembers, "id", id)
	if err != nil {
		return false, fmt.Errorf("find member by id: %w", err)
	}
	if raw == nil {
		return false, nil
	}

	if err := txn.Delete(tblMembers, raw); err != nil {
		return false, fmt.Errorf("delete member: %w", err)
	}

	txn.Commit()
	return true, nil
}

// list returns copies of every member, newest first.
func (d *memberDB) list() ([]*types.Member, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	iter, err := txn.GetReverse(tblMembers, "seq")
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	var members []*types.Member
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		members = append(members, raw.(*memberRecord).Member.DeepCopy())
	}
	return members, nil
}

// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package album

import "context"

// # Series Resequencing

/*
ResequenceSeries rewrites the previous/next chain of a series.

Description: Members are ordered by album date (dateless members last) with
creation time breaking ties, then each member's chain pointers are rewritten
to match its neighbours in that order. The head's previous and the tail's
next stay nil. Members whose pointers already match are skipped so a
resequence over an unchanged series writes nothing.

Resequencing runs automatically after every propagating save of a series
member, because a date change can reorder the chain.

Parameters:
  - context: context.Context
  - seriesID: string (Series UUID)

Returns:
  - error: Lookup or pointer update failures
*/
func (service *Service) ResequenceSeries(context context.Context, seriesID string) error {

	members, err := service.albumRepo.ListBySeries(context, seriesID)
	if err != nil {
		return err
	}

	for index, member := range members {
		var previousID, nextID *string
		if index > 0 {
			previousID = &members[index-1].ID
		}
		if index < len(members)-1 {
			nextID = &members[index+1].ID
		}

		if equalPointer(member.PreviousInSeriesID, previousID) && equalPointer(member.NextInSeriesID, nextID) {
			continue
		}

		if err := service.albumRepo.UpdateSeriesPointers(context, member.ID, previousID, nextID); err != nil {
			return err
		}
	}

	return nil
}

// equalPointer compares two optional IDs by value.
func equalPointer(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

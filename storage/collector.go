// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"

	"github.com/ava-labs/avalanchego/database"

	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/consts"
	"github.com/0xhaz/dexvm/state"
)

// Collector is the fee distributor's global record.
type Collector struct {
	Owner            codec.Address
	Paused           bool
	FailureCount     uint8
	TotalProcessed   uint64
	LastDistribution int64

	// Retained from an earlier value-weighted queue design; always zero.
	TotalPendingUSD uint64
}

// Tracking is the per-token balance surveillance record. QueueIndex is
// 1-based; 0 means the token has no queued job.
type Tracking struct {
	LastProcessedBalance uint64
	PendingBalance       uint64
	QueueIndex           uint16
}

// Job is one queued conversion or liquidity-removal work item.
type Job struct {
	Token        codec.Address
	Amount       uint64
	Priority     uint64
	EstimatedGas uint64
	Timestamp    int64
	JobType      uint8
	FailureCount uint8
}

func CollectorKey() []byte {
	return []byte{collectorPrefix}
}

func TrackedTokensKey() []byte {
	return []byte{trackedTokensPrefix}
}

func TrackingKey(token codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen)
	k[0] = trackingPrefix
	copy(k[1:], token[:])
	return k
}

func QueueKey() []byte {
	return []byte{queuePrefix}
}

const collectorValueLen = codec.AddressLen + consts.ByteLen*2 + consts.Uint64Len*3

func SetCollector(ctx context.Context, mu state.Mutable, c *Collector) error {
	b := make([]byte, collectorValueLen)
	copy(b, c.Owner[:])
	if c.Paused {
		b[codec.AddressLen] = 1
	}
	b[codec.AddressLen+1] = c.FailureCount
	binary.BigEndian.PutUint64(b[codec.AddressLen+2:], c.TotalProcessed)
	binary.BigEndian.PutUint64(b[codec.AddressLen+2+consts.Uint64Len:], uint64(c.LastDistribution))
	binary.BigEndian.PutUint64(b[codec.AddressLen+2+consts.Uint64Len*2:], c.TotalPendingUSD)
	return mu.Insert(ctx, CollectorKey(), b)
}

func GetCollector(ctx context.Context, im state.Immutable) (*Collector, error) {
	b, err := im.GetValue(ctx, CollectorKey())
	if err != nil {
		return nil, err
	}
	if len(b) != collectorValueLen {
		return nil, ErrInvalidCollectorRecord
	}
	c := &Collector{}
	copy(c.Owner[:], b)
	c.Paused = b[codec.AddressLen] == 1
	c.FailureCount = b[codec.AddressLen+1]
	c.TotalProcessed = binary.BigEndian.Uint64(b[codec.AddressLen+2:])
	c.LastDistribution = int64(binary.BigEndian.Uint64(b[codec.AddressLen+2+consts.Uint64Len:]))
	c.TotalPendingUSD = binary.BigEndian.Uint64(b[codec.AddressLen+2+consts.Uint64Len*2:])
	return c, nil
}

func SetTrackedTokens(ctx context.Context, mu state.Mutable, tokens []codec.Address) error {
	b := make([]byte, consts.Uint16Len+len(tokens)*codec.AddressLen)
	binary.BigEndian.PutUint16(b, uint16(len(tokens)))
	for i, token := range tokens {
		copy(b[consts.Uint16Len+i*codec.AddressLen:], token[:])
	}
	return mu.Insert(ctx, TrackedTokensKey(), b)
}

func GetTrackedTokens(ctx context.Context, im state.Immutable) ([]codec.Address, error) {
	b, err := im.GetValue(ctx, TrackedTokensKey())
	if err == database.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	count := int(binary.BigEndian.Uint16(b))
	tokens := make([]codec.Address, count)
	for i := 0; i < count; i++ {
		copy(tokens[i][:], b[consts.Uint16Len+i*codec.AddressLen:])
	}
	return tokens, nil
}

const trackingValueLen = consts.Uint64Len*2 + consts.Uint16Len

func SetTracking(
	ctx context.Context,
	mu state.Mutable,
	token codec.Address,
	tr *Tracking,
) error {
	b := make([]byte, trackingValueLen)
	binary.BigEndian.PutUint64(b, tr.LastProcessedBalance)
	binary.BigEndian.PutUint64(b[consts.Uint64Len:], tr.PendingBalance)
	binary.BigEndian.PutUint16(b[consts.Uint64Len*2:], tr.QueueIndex)
	return mu.Insert(ctx, TrackingKey(token), b)
}

// GetTracking returns the surveillance record for a tracked token. Untracked
// tokens report database.ErrNotFound.
func GetTracking(
	ctx context.Context,
	im state.Immutable,
	token codec.Address,
) (*Tracking, error) {
	b, err := im.GetValue(ctx, TrackingKey(token))
	if err != nil {
		return nil, err
	}
	if len(b) != trackingValueLen {
		return nil, ErrInvalidCollectorRecord
	}
	return &Tracking{
		LastProcessedBalance: binary.BigEndian.Uint64(b),
		PendingBalance:       binary.BigEndian.Uint64(b[consts.Uint64Len:]),
		QueueIndex:           binary.BigEndian.Uint16(b[consts.Uint64Len*2:]),
	}, nil
}

const jobLen = codec.AddressLen + consts.Uint64Len*4 + consts.ByteLen*2

// SetQueue persists the job queue and rewrites every queued token's 1-based
// QueueIndex, clearing the index of any token passed in [removed].
func SetQueue(
	ctx context.Context,
	mu state.Mutable,
	jobs []*Job,
	removed []codec.Address,
) error {
	b := make([]byte, consts.Uint16Len+len(jobs)*jobLen)
	binary.BigEndian.PutUint16(b, uint16(len(jobs)))
	for i, job := range jobs {
		off := consts.Uint16Len + i*jobLen
		copy(b[off:], job.Token[:])
		binary.BigEndian.PutUint64(b[off+codec.AddressLen:], job.Amount)
		binary.BigEndian.PutUint64(b[off+codec.AddressLen+consts.Uint64Len:], job.Priority)
		binary.BigEndian.PutUint64(b[off+codec.AddressLen+consts.Uint64Len*2:], job.EstimatedGas)
		binary.BigEndian.PutUint64(b[off+codec.AddressLen+consts.Uint64Len*3:], uint64(job.Timestamp))
		b[off+codec.AddressLen+consts.Uint64Len*4] = job.JobType
		b[off+codec.AddressLen+consts.Uint64Len*4+1] = job.FailureCount
	}
	if err := mu.Insert(ctx, QueueKey(), b); err != nil {
		return err
	}
	for _, token := range removed {
		tr, err := GetTracking(ctx, mu, token)
		if err != nil {
			return err
		}
		tr.QueueIndex = 0
		if err := SetTracking(ctx, mu, token, tr); err != nil {
			return err
		}
	}
	for i, job := range jobs {
		tr, err := GetTracking(ctx, mu, job.Token)
		if err != nil {
			return err
		}
		tr.QueueIndex = uint16(i + 1)
		if err := SetTracking(ctx, mu, job.Token, tr); err != nil {
			return err
		}
	}
	return nil
}

func GetQueue(ctx context.Context, im state.Immutable) ([]*Job, error) {
	b, err := im.GetValue(ctx, QueueKey())
	if err == database.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	count := int(binary.BigEndian.Uint16(b))
	jobs := make([]*Job, count)
	for i := 0; i < count; i++ {
		off := consts.Uint16Len + i*jobLen
		job := &Job{}
		copy(job.Token[:], b[off:])
		job.Amount = binary.BigEndian.Uint64(b[off+codec.AddressLen:])
		job.Priority = binary.BigEndian.Uint64(b[off+codec.AddressLen+consts.Uint64Len:])
		job.EstimatedGas = binary.BigEndian.Uint64(b[off+codec.AddressLen+consts.Uint64Len*2:])
		job.Timestamp = int64(binary.BigEndian.Uint64(b[off+codec.AddressLen+consts.Uint64Len*3:]))
		job.JobType = b[off+codec.AddressLen+consts.Uint64Len*4]
		job.FailureCount = b[off+codec.AddressLen+consts.Uint64Len*4+1]
		jobs[i] = job
	}
	return jobs, nil
}

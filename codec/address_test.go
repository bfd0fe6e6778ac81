// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
)

func TestAddressTextRoundTrip(t *testing.T) {
	require := require.New(t)

	addr := CreateAddress(0x12, ids.GenerateTestID())
	text, err := addr.MarshalText()
	require.NoError(err)

	var parsed Address
	require.NoError(parsed.UnmarshalText(text))
	require.Equal(addr, parsed)
	require.Equal(uint8(0x12), parsed.TypeID())
}

func TestStringToAddress(t *testing.T) {
	require := require.New(t)

	addr := CreateAddress(0x01, ids.GenerateTestID())
	require.Equal(addr, StringToAddress(addr.String()))
	require.Equal(EmptyAddress, StringToAddress("zz"))
}

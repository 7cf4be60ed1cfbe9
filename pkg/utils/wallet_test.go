package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// EIP-55 reference vectors.
var checksummed = []string{
	"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
	"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
	"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
	"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
}

func TestChecksumWallet(t *testing.T) {
	for _, addr := range checksummed {
		assert.Equal(t, addr, ChecksumWallet(strings.ToLower(addr)))
	}
}

func TestNormalizeWallet(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{
			name: "valid checksum",
			in:   "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
			want: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		},
		{
			name: "all lower",
			in:   "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359",
			want: "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359",
		},
		{
			name: "all upper with upper prefix and padding",
			in:   " 0XFB6916095CA1DF60BB79CE92CE3EA74C37C5D359 ",
			want: "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359",
		},
		{
			name:    "bad checksum",
			in:      "0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
			wantErr: ErrInvalidWalletChecksum,
		},
		{
			name:    "too short",
			in:      "0xabc",
			wantErr: ErrInvalidWallet,
		},
		{
			name:    "missing prefix",
			in:      "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
			wantErr: ErrInvalidWallet,
		},
		{
			name:    "non hex",
			in:      "0xzzaeb6053f3e94c9b9a09f33669435e7ef1beaed",
			wantErr: ErrInvalidWallet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeWallet(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShortWallet(t *testing.T) {
	assert.Equal(t, "0x5aae...eaed", ShortWallet("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"))
	assert.Equal(t, "0xabc", ShortWallet("0xabc"))
}

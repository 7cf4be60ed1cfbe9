package utils

import (
	"encoding/hex"
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/sha3"
)

var (
	ErrInvalidWallet         = errors.New("wallet address must be 0x followed by 40 hex characters")
	ErrInvalidWalletChecksum = errors.New("wallet address checksum mismatch")
)

var walletPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// NormalizeWallet validates an Ethereum address and returns it lowercased.
// Mixed-case input must carry a valid EIP-55 checksum.
func NormalizeWallet(address string) (string, error) {
	address = strings.TrimSpace(address)
	if strings.HasPrefix(address, "0X") {
		address = "0x" + address[2:]
	}

	if !walletPattern.MatchString(address) {
		return "", ErrInvalidWallet
	}

	body := address[2:]
	lower := strings.ToLower(body)

	if body != lower && body != strings.ToUpper(body) {
		if ChecksumWallet(address) != address {
			return "", ErrInvalidWalletChecksum
		}
	}

	return "0x" + lower, nil
}

// ChecksumWallet renders a well-formed address in EIP-55 mixed case.
func ChecksumWallet(address string) string {
	lower := strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(address, "0x"), "0X"))

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	digest := hex.EncodeToString(h.Sum(nil))

	out := []byte(lower)
	for i, c := range out {
		if c >= 'a' && c <= 'f' && digest[i] >= '8' {
			out[i] = c - 'a' + 'A'
		}
	}

	return "0x" + string(out)
}

// ShortWallet renders the first six and last four characters of an address,
// e.g. 0x5aAe...eAed.
func ShortWallet(address string) string {
	if len(address) <= 10 {
		return address
	}

	return address[:6] + "..." + address[len(address)-4:]
}

package uploader

import (
	"crypto/sha1" //nolint:gosec // the service reports SHA-1, not a security boundary
	"encoding/hex"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"strings"
)

// checksumBlockSize is the read block for streaming digests (64 KiB).
const checksumBlockSize = 64 * 1024

// Sums holds local content digests in the service's wire format: SHA-1 as
// 40 lowercase hex digits, CRC32 (IEEE) as 8 lowercase hex digits.
type Sums struct {
	SHA1  string
	CRC32 string
}

// FileSums computes both digests over the file's full byte stream in a
// single pass.
func FileSums(path string) (Sums, error) {
	f, err := os.Open(path)
	if err != nil {
		return Sums{}, fmt.Errorf("opening %s for checksums: %w", path, err)
	}
	defer f.Close()

	shaSum := sha1.New() //nolint:gosec // see import note
	crcSum := crc32.NewIEEE()

	buf := make([]byte, checksumBlockSize)
	if _, err := io.CopyBuffer(io.MultiWriter(shaSum, crcSum), f, buf); err != nil {
		return Sums{}, fmt.Errorf("hashing %s: %w", path, err)
	}

	return Sums{
		SHA1:  hex.EncodeToString(shaSum.Sum(nil)),
		CRC32: fmt.Sprintf("%08x", crcSum.Sum32()),
	}, nil
}

// VerifyReport compares locally computed digests against server-reported
// ones. A mismatch is reported, never fatal.
type VerifyReport struct {
	SHA1Match  bool
	CRC32Match bool
	Local      Sums
	Server     Sums
}

// OK reports whether both digests match.
func (r *VerifyReport) OK() bool {
	return r.SHA1Match && r.CRC32Match
}

// Verify recomputes local digests for path and compares them
// case-insensitively against the server's values.
func Verify(path, serverSHA1, serverCRC32 string) (*VerifyReport, error) {
	local, err := FileSums(path)
	if err != nil {
		return nil, err
	}

	return &VerifyReport{
		SHA1Match:  strings.EqualFold(local.SHA1, serverSHA1),
		CRC32Match: strings.EqualFold(local.CRC32, serverCRC32),
		Local:      local,
		Server:     Sums{SHA1: serverSHA1, CRC32: serverCRC32},
	}, nil
}

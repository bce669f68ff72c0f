package fexapi

import (
	"bytes"
	"strconv"
	"time"
)

// Truthy decodes the service's loosely-typed result fields, which arrive as
// true/false, 1/0, or "1"/"0" depending on the endpoint.
type Truthy bool

func (t *Truthy) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))

	switch s {
	case "true":
		*t = true
	case "false", "null", "":
		*t = false
	default:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			// Any non-empty, non-numeric value counts as set.
			*t = true
			return nil
		}

		*t = n != 0
	}

	return nil
}

// Bool returns the decoded value as a plain bool.
func (t Truthy) Bool() bool {
	return bool(t)
}

// SignInResponse is the decoded envelope of a sign-in call. KeyCount is the
// number of top-level keys in the raw JSON; the login classifier uses it to
// recognize the service's minimal error envelope.
type SignInResponse struct {
	Result  Truthy `json:"result"`
	Login   string `json:"login"`
	Captcha Truthy `json:"captcha"`
	User    struct {
		Login string `json:"login"`
	} `json:"user"`

	KeyCount int `json:"-"`
}

// MatchesLogin reports whether the response names the given login, either
// directly or nested under the user object.
func (r *SignInResponse) MatchesLogin(login string) bool {
	return r.Login == login || r.User.Login == login
}

// ObjectView is the service's view of a share object. Treated as an
// immutable snapshot per call; re-fetch whenever permission state might
// have changed.
type ObjectView struct {
	Result       Truthy        `json:"result"`
	CanEdit      Truthy        `json:"can_edit"`
	Public       Truthy        `json:"public"`
	WithViewPass Truthy        `json:"with_view_pass"`
	FSUpload     []string      `json:"fs_upload"`
	UploadList   []UploadEntry `json:"upload_list"`
	UploadCount  int64         `json:"upload_count"`
	UploadSize   int64         `json:"upload_size"`
	Post         string        `json:"post"`
}

// UploadServer returns the first upload server base URL, or "" when the
// service returned none.
func (v *ObjectView) UploadServer() string {
	if len(v.FSUpload) == 0 {
		return ""
	}

	return v.FSUpload[0]
}

// UploadEntry is one row of an object's or folder's upload list.
type UploadEntry struct {
	Name       string `json:"name"`
	UploadID   string `json:"upload_id"`
	IsFolder   Truthy `json:"is_folder"`
	Size       int64  `json:"size"`
	SHA1       string `json:"sha1"`
	CRC32      string `json:"crc32"`
	CreateTime int64  `json:"create_time"`
}

// FolderInfo is one element of a folder-list response, describing a single
// segment of a parent chain.
type FolderInfo struct {
	Name     string `json:"name"`
	UploadID string `json:"upload_id"`
}

// HomeObject is one row of the account's object listing.
type HomeObject struct {
	Preview      string `json:"preview"`
	Token        string `json:"token"`
	Login        string `json:"login"`
	UploadSize   int64  `json:"upload_size"`
	Public       Truthy `json:"public"`
	WithViewPass Truthy `json:"with_view_pass"`
	CanEdit      Truthy `json:"can_edit"`
	CreateTime   int64  `json:"create_time"`
}

// UploadedFile is the service's response to a file transfer, enriched with
// the response Date header and the measured transfer time.
type UploadedFile struct {
	Result   Truthy `json:"result"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	SHA1     string `json:"sha1"`
	CRC32    string `json:"crc32"`
	UploadID string `json:"upload_id"`

	Date    time.Time     `json:"-"`
	Elapsed time.Duration `json:"-"`
}

// ProgressFunc reports transfer progress. done is bytes sent so far,
// total is the full payload size. Advisory only.
type ProgressFunc func(done, total int64)

package auth

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// AvatarSize is the pixel size used in every response.
const AvatarSize = 50

// AvatarURL returns the gravatar image for an email address.
func AvatarURL(email string, size int) string {
	sum := md5.Sum([]byte(NormalizeEmail(email)))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=retro&s=%d", hex.EncodeToString(sum[:]), size)
}

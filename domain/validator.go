package domain

import (
	"fmt"
	"netchat/errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

const maxNicknameLength = 32

type nicknameRequest struct {
	Nickname string `validate:"required,min=1,max=32"`
}

// ValidateNickname trims the raw handshake line and checks the result is a
// usable identity. Whitespace-only input is the classic violation; control
// characters would corrupt the line-oriented wire format.
func ValidateNickname(raw string) (string, error) {
	nickname := strings.TrimSpace(raw)
	if err := validate.Struct(nicknameRequest{Nickname: nickname}); err != nil {
		return "", fmt.Errorf("%w: %s", errors.ErrInvalidNickname, shortReason(nickname))
	}
	if !isPrintable(nickname) {
		return "", fmt.Errorf("%w: contains control characters", errors.ErrInvalidNickname)
	}
	return nickname, nil
}

func isPrintable(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func shortReason(nickname string) string {
	if nickname == "" {
		return "blank after trimming"
	}
	return fmt.Sprintf("longer than %d characters", maxNicknameLength)
}

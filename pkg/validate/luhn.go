package validate

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/ShiraazMoollatjie/goluhn"
)

func IsLuhn(s string) bool {
	err := goluhn.Validate(s)
	return err == nil
}

// GenerateCode returns a random numeric code of the given length whose last
// digit is a Luhn check digit, so gateway order codes can be sanity-checked
// on the webhook path with IsLuhn.
func GenerateCode(length int) string {
	if length < 2 {
		length = 2
	}

	var sb strings.Builder
	sb.WriteByte(byte('1' + rand.Intn(9)))
	for i := 1; i < length-1; i++ {
		sb.WriteByte(byte('0' + rand.Intn(10)))
	}
	body := sb.String()

	return body + strconv.Itoa(checkDigit(body))
}

func checkDigit(body string) int {
	sum := 0
	double := true
	for i := len(body) - 1; i >= 0; i-- {
		d := int(body[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		double = !double
		sum += d
	}
	return (10 - sum%10) % 10
}

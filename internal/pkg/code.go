package pkg

import (
	cryptoRand "crypto/rand"
	"math/big"
	"strings"
)

// captchaAlphabet 去掉了易混淆的 0 o 1 i L l
const captchaAlphabet = "23456789abcdefghjkmnpqrstuvwxyzABCDEFGHIJKMNOPQRSTUVWXYZ"

func RandDigits(n int) (string, error) {
	return randFrom("0123456789", n)
}

func RandCaptchaText(n int) (string, error) {
	return randFrom(captchaAlphabet, n)
}

func randFrom(alphabet string, n int) (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < n; i++ {
		x, err := cryptoRand.Int(cryptoRand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(alphabet[x.Int64()])
	}
	return b.String(), nil
}

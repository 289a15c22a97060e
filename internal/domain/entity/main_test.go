package entity

import (
	"os"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	SetPasswordCost(bcrypt.MinCost)
	os.Exit(m.Run())
}

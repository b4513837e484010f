package main

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// hashAPIKey prints the bcrypt hash to store in the APIKEYHASH setting.
func (cli *commandLine) hashAPIKey(key []byte) error {
	hash, err := bcrypt.GenerateFromPassword(key, bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	fmt.Println(string(hash))
	return nil
}

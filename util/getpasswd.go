package util
import (
	"fmt"
	"bytes"
	"syscall"
	"golang.org/x/term"
)

// read a password from the terminal without echoing it.
func GetPasswd( prompt string ) ([]byte, error) {
	fmt.Print( prompt )
	bytepw, err := term.ReadPassword( int(syscall.Stdin) )
	fmt.Println()
	return bytepw, err
}

// ask twice, for operations that set a password rather than use one.
func GetPasswdConfirmed( prompt string ) ([]byte, error) {
	first, err := GetPasswd( prompt )
	if err != nil {
		return nil, err
	}
	second, err := GetPasswd( "Repeat: " )
	if err != nil {
		return nil, err
	}
	if bytes.Equal( first, second ) == false {
		return nil, fmt.Errorf("passwords do not match")
	}
	return first, nil
}

package main
import (
	"os"
	"fmt"
	"image"
	"errors"
	"path/filepath"

	"pixveil/util"
	"pixveil/config"
	"pixveil/stegano"
	"pixveil/stegano/img"
	"pixveil/cryptography"
)

const (
	PixveilFolder = ".pixveil"
	ConfigFilename = "config.yml"
)

var logger *util.Logger

func main() {

	if len( os.Args ) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		help()
		return
	}

	conf := loadConfig()
	logger = util.NewLogger( &conf.Logger )

	var err error
	switch os.Args[1] {
	case "hide":
		err = hide( conf, os.Args[2:] )
	case "reveal":
		err = reveal( conf, os.Args[2:] )
	case "capacity":
		err = capacity( conf, os.Args[2:] )
	case "genkeys":
		err = genkeys( os.Args[2:] )
	default:
		help()
		return
	}
	if err != nil {
		logger.LogError( err )
		os.Exit( 1 )
	}
}

func loadConfig() *config.FullConfig {
	home, err := os.UserHomeDir()
	if err != nil {
		return config.DefaultConfig()
	}
	conf, err := config.LoadConfig( filepath.Join( home, PixveilFolder, ConfigFilename ) )
	if err != nil {
		// no config yet, defaults are fine
		return config.DefaultConfig()
	}
	return conf
}

// hide <cover> <output> (-m <text> | -f <file>) [-p] [-k <pk file>]
func hide( conf *config.FullConfig, args []string ) error {
	if len(args) < 3 {
		help()
		return fmt.Errorf("hide: not enough arguments")
	}
	coverPath, outPath := args[0], args[1]

	payload := &stegano.Payload{}
	opts := &stegano.Options{ UseAlpha: conf.Stego.UseAlpha }

	for i := 2; i < len(args); i++ {
		switch args[i] {
		case "-m":
			i++
			if i >= len(args) {
				return fmt.Errorf("hide: -m needs a message")
			}
			payload.Kind = stegano.Text
			payload.Data = []byte( args[i] )
		case "-f":
			i++
			if i >= len(args) {
				return fmt.Errorf("hide: -f needs a file")
			}
			data, err := os.ReadFile( args[i] )
			if err != nil {
				return err
			}
			payload.Kind = stegano.File
			payload.Name = filepath.Base( args[i] )
			payload.Data = data
		case "-p":
			pass, err := util.GetPasswdConfirmed( "Password: " )
			if err != nil {
				return err
			}
			opts.Password = string( pass )
		case "-k":
			i++
			if i >= len(args) {
				return fmt.Errorf("hide: -k needs a public key file")
			}
			pk, err := os.ReadFile( args[i] )
			if err != nil {
				return err
			}
			opts.RecipientKey = string( pk )
		default:
			return fmt.Errorf("hide: unknown option %s", args[i])
		}
	}
	if payload.Data == nil {
		return fmt.Errorf("hide: nothing to hide, pass -m or -f")
	}

	cover, format, err := loadCarrier( coverPath )
	if err != nil {
		return err
	}
	if conf.Stego.OutputFormat != "" {
		format = conf.Stego.OutputFormat
	}
	if opts.UseAlpha && format == img.FormatBMP {
		return fmt.Errorf("bmp output cannot carry alpha channel bits")
	}

	logger.LogInfo( fmt.Sprintf( "carrier holds up to %d payload bytes",
		stegano.MaxCapacityBytes( cover, opts ) ) )

	stego, err := stegano.Hide( cover, payload, opts )
	if err != nil {
		return err
	}
	encoded, err := img.Encode( stego, format )
	if err != nil {
		return err
	}
	return os.WriteFile( outPath, encoded, 0660 )
}

// reveal <image> [-o <folder>] [-s <sk file>]
func reveal( conf *config.FullConfig, args []string ) error {
	if len(args) < 1 {
		help()
		return fmt.Errorf("reveal: not enough arguments")
	}
	outFolder := "."
	opts := &stegano.Options{ UseAlpha: conf.Stego.UseAlpha }

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o":
			i++
			if i >= len(args) {
				return fmt.Errorf("reveal: -o needs a folder")
			}
			outFolder = args[i]
		case "-s":
			i++
			if i >= len(args) {
				return fmt.Errorf("reveal: -s needs a private key file")
			}
			sk, err := os.ReadFile( args[i] )
			if err != nil {
				return err
			}
			opts.PrivateKey = string( sk )
		default:
			return fmt.Errorf("reveal: unknown option %s", args[i])
		}
	}

	carrier, _, err := loadCarrier( args[0] )
	if err != nil {
		return err
	}

	payload, err := stegano.Reveal( carrier, opts )
	if errors.Is( err, stegano.ErrPasswordRequired ) {
		pass, perr := util.GetPasswd( "Password: " )
		if perr != nil {
			return perr
		}
		opts.Password = string( pass )
		payload, err = stegano.Reveal( carrier, opts )
	}
	if err != nil {
		return err
	}

	if payload.Kind == stegano.Text {
		fmt.Println( string( payload.Data ) )
		return nil
	}
	name := payload.Name
	if name == "" {
		name = util.GenFilename( "recovered", "bin" )
	}
	outPath := filepath.Join( outFolder, filepath.Base( name ) )
	if err := os.WriteFile( outPath, payload.Data, 0660 ); err != nil {
		return err
	}
	logger.LogInfo( "recovered file saved to " + outPath )
	return nil
}

// capacity <image>
func capacity( conf *config.FullConfig, args []string ) error {
	if len(args) < 1 {
		help()
		return fmt.Errorf("capacity: not enough arguments")
	}
	carrier, format, err := loadCarrier( args[0] )
	if err != nil {
		return err
	}
	opts := &stegano.Options{ UseAlpha: conf.Stego.UseAlpha }
	fmt.Printf( "%s %s: %d payload bytes\n",
		args[0], format, stegano.MaxCapacityBytes( carrier, opts ) )
	return nil
}

// genkeys <basename>, writes <basename>.pk and <basename>.sk
func genkeys( args []string ) error {
	if len(args) < 1 {
		help()
		return fmt.Errorf("genkeys: not enough arguments")
	}
	pk, sk, err := cryptography.GenerateKeyPair()
	if err != nil {
		return err
	}
	if err := os.WriteFile( args[0] + ".pk", []byte( pk ), 0660 ); err != nil {
		return err
	}
	if err := os.WriteFile( args[0] + ".sk", []byte( sk ), 0600 ); err != nil {
		return err
	}
	fmt.Println( "keys written to", args[0] + ".pk", "and", args[0] + ".sk" )
	return nil
}

func loadCarrier( path string ) (image.Image, string, error) {
	data, err := os.ReadFile( path )
	if err != nil {
		return nil, "", err
	}
	return img.Decode( data )
}

func help() {
	fmt.Println( `pixveil - hide data inside png/bmp images

usage:
	pixveil hide <cover> <output> -m <message> [options]
	pixveil hide <cover> <output> -f <file> [options]
	pixveil reveal <image> [-o <folder>] [-s <private key file>]
	pixveil capacity <image>
	pixveil genkeys <basename>

options:
	-p	protect the payload with a password (asked on the terminal)
	-k <f>	seal the payload for the owner of this public key file` )
}

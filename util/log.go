package util
import (
	"os"
	"sync"
	"time"

	"pixveil/cryptography"
)

/*
 * a small leveled logger for the command line front. the codec
 * packages never log, they return errors.
 */
const (
	Error = 1
	Warning = 2
	Info = 4

	RedColor = "\033[31m"
	YellowColor = "\033[33m"
	CyanColor = "\033[36m"
	ResetColor = "\033[0m"
)

type LoggerInfo struct {
	Filename	string	`yaml:"filename"`	// empty means stderr
	Password	string	`yaml:"password"`	// <base64 salt>:<password>, encrypted log only
	IsEncrypted	bool	`yaml:"is_encrypted"`
	IsColored	bool	`yaml:"is_colored"`
	SaveTime	bool	`yaml:"save_time"`
	Mode		uint8	`yaml:"mode"`
}

type Logger struct {
	li	*LoggerInfo
	mtx	sync.Mutex
}

func NewLogger( li *LoggerInfo ) *Logger {
	return &Logger{
		li,
		sync.Mutex{},
	}
}

func(l *Logger) colorize( line string, color string ) string {
	if l.li.IsColored {
		return color + line + ResetColor
	}
	return line
}

func(l *Logger) prepareString( tag string, clr string ) string {
	toWrite := l.colorize( tag, clr ) + " "
	if l.li.SaveTime {
		toWrite += time.Now().Format( time.RFC3339 ) + " "
	}
	return toWrite
}

func(l *Logger) LogString( s string ) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if l.li.Filename == "" {
		os.Stderr.WriteString( s + "\n" )
		return
	}
	if l.li.IsEncrypted {
		l.appendEncrypted( s )
		return
	}
	f, err := os.OpenFile( l.li.Filename, os.O_APPEND | os.O_CREATE | os.O_WRONLY, 0600 )
	if err == nil {
		defer f.Close()
		f.WriteString( s + "\n" )
	}
}

// the log file stays encrypted as a whole, the same at-rest scheme the
// configuration uses. the salt is carried inside the password field so
// the key derives the same way on every run.
func(l *Logger) appendEncrypted( s string ) {
	pass, salt, err := cryptography.SplitWithSalt( l.li.Password )
	if err != nil {
		return
	}
	key := cryptography.DeriveKey( pass, salt )

	var current []byte
	data, err := os.ReadFile( l.li.Filename )
	if err == nil && len(data) > 0 {
		current, err = cryptography.Decrypt( data, key )
		if err != nil {
			// wrong key or mangled file, do not clobber it
			return
		}
	}
	enc, err := cryptography.Encrypt( append( current, []byte( s + "\n" )... ), key )
	if err == nil {
		os.WriteFile( l.li.Filename, enc, 0600 )
	}
}

func(l *Logger) LogError( err error ) {
	if l.li.Mode & Error == Error {
		l.LogString( l.prepareString( "[ERROR]", RedColor ) + err.Error() )
	}
}

func(l *Logger) LogWarning( warning string ) {
	if l.li.Mode & Warning == Warning {
		l.LogString( l.prepareString( "[WARNING]", YellowColor ) + warning )
	}
}

func(l *Logger) LogInfo( info string ) {
	if l.li.Mode & Info == Info {
		l.LogString( l.prepareString( "[INFO]", CyanColor ) + info )
	}
}

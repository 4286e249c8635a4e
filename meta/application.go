package meta

import (
	"fmt"

	"github.com/pkg/errors"
)

// registeredApplications maps from a registered application ID to a
// description.
//
// ref: https://www.xiph.org/flac/id.html
var registeredApplications = map[ID]string{
	"ATCH": "FlacFile",
	"BSOL": "beSolo",
	"BUGS": "Bugs Player",
	"Cues": "GoldWave cue points",
	"Fica": "CUE Splitter",
	"Ftol": "flac-tools",
	"MOTB": "MOTB MetaCzar",
	"MPSE": "MP3 Stream Editor",
	"MuML": "MusicML: Music Metadata Language",
	"RIFF": "Sound Devices RIFF chunk storage",
	"SFFL": "Sound Font FLAC",
	"SONY": "Sony Creative Software",
	"SQEZ": "flacsqueeze",
	"TtWv": "TwistedWave",
	"UITS": "UITS Embedding tools",
	"aiff": "FLAC AIFF chunk storage",
	"imag": "flac-image",
	"peem": "Parseable Embedded Extensible Metadata",
	"qfst": "QFLAC Studio",
	"riff": "FLAC RIFF chunk storage",
	"tune": "TagTuner",
	"xbat": "XBAT",
	"xmcd": "xmcd",
}

// An ID is a 4 byte identifier of a registered application.
type ID string

func (id ID) String() string {
	if s, ok := registeredApplications[id]; ok {
		return s
	}
	return fmt.Sprintf("<unregistered ID: %q>", string(id))
}

// An Application metadata block is used by third-party applications. The only
// mandatory field is a 32-bit identifier. The remainder of the block is
// defined by the registered application, and stored by the encoder as is.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_application
type Application struct {
	// Registered application ID.
	ID ID
	// Application data.
	Data []byte
}

// NewApplication returns an Application metadata block holding the given
// application data.
func NewApplication(id ID, data []byte) (*Block, error) {
	app := &Application{ID: id, Data: data}
	if err := app.validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	block := &Block{
		Header: Header{Type: TypeApplication, Length: app.Len()},
		Body:   app,
	}
	return block, nil
}

// validate reports whether the application ID is 4 bytes and the block body
// fits in the length field of a metadata block header.
func (app *Application) validate() error {
	if len(app.ID) != 4 {
		return errors.Wrapf(ErrInvalidBlock, "application ID %q not 4 bytes", string(app.ID))
	}
	if app.Len() > MaxBlockLength {
		return errors.Wrapf(ErrInvalidBlock, "application data of %d bytes too large", len(app.Data))
	}
	return nil
}

// Len returns the length in bytes of the Application block body.
func (app *Application) Len() int64 {
	// 32 bits: ID.
	return 4 + int64(len(app.Data))
}

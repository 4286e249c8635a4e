// The wav2flac tool converts WAV files to FLAC files.
//
// Usage:
//
//	wav2flac [OPTION]... FILE.wav...
//
// Flags:
//
//	-blocksize int
//	      block size in inter-channel samples (default 4096)
//	-f    force overwrite
//	-j int
//	      number of goroutines analyzing each block (default 1)
//	-padding int
//	      size in bytes of a Padding metadata block; 0 omits the block
//	-stereo string
//	      stereo mode; auto, independent, left-side, side-right or mid-side (default "auto")
package main

import (
	"flag"
	"log"
	"os"

	"github.com/mewkiz/flacenc"
	"github.com/mewkiz/flacenc/meta"
	"github.com/mewkiz/flacenc/pcm"
	"github.com/mewkiz/pkg/osutil"
	"github.com/mewkiz/pkg/pathutil"
	"github.com/pkg/errors"
)

func main() {
	// Parse command line arguments.
	var (
		// force overwrite FLAC file if already present.
		force bool
		// block size in inter-channel samples.
		blockSize int
		// stereo mode.
		stereo string
		// size of padding metadata block.
		padding int
		// number of goroutines analyzing each block.
		concurrency int
	)
	flag.BoolVar(&force, "f", false, "force overwrite")
	flag.IntVar(&blockSize, "blocksize", flac.DefaultBlockSize, "block size in inter-channel samples")
	flag.StringVar(&stereo, "stereo", "auto", "stereo mode; auto, independent, left-side, side-right or mid-side")
	flag.IntVar(&padding, "padding", 0, "size in bytes of a Padding metadata block; 0 omits the block")
	flag.IntVar(&concurrency, "j", 1, "number of goroutines analyzing each block")
	flag.Parse()
	mode, err := flac.ParseStereoMode(stereo)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	opts := &flac.Options{
		BlockSize:   blockSize,
		Stereo:      mode,
		Concurrency: concurrency,
	}
	var blocks []*meta.Block
	if padding > 0 {
		blocks = append(blocks, meta.NewPadding(padding))
	}
	for _, wavPath := range flag.Args() {
		if err := wav2flac(wavPath, force, opts, blocks); err != nil {
			log.Fatalf("%+v", err)
		}
	}
}

func wav2flac(wavPath string, force bool, opts *flac.Options, blocks []*meta.Block) error {
	// Create WAV decoder.
	r, err := os.Open(wavPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer r.Close()
	src, err := pcm.NewWAVSource(r)
	if err != nil {
		return errors.Wrapf(err, "invalid WAV file %q", wavPath)
	}

	// Create FLAC file.
	flacPath := pathutil.TrimExt(wavPath) + ".flac"
	if !force && osutil.Exists(flacPath) {
		return errors.Errorf("FLAC file %q already present; use -f flag to force overwrite", flacPath)
	}
	w, err := os.Create(flacPath)
	if err != nil {
		return errors.WithStack(err)
	}

	// Encode samples; the FLAC file is closed by Encode.
	if err := flac.Encode(w, src, opts, blocks...); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

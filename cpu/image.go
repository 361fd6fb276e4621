package cpu

import (
	"encoding/binary"
	"io"
	"iter"
	"os"
)

// Image is a program image: an origin address, and the words to load there.
type Image struct {
	Origin uint16
	Words  []uint16
}

// ReadImage reads an image: a big-endian origin word followed by big-endian
// data words. A trailing odd byte is ignored.
func ReadImage(r io.Reader) (img *Image, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	if len(data) < 2 {
		err = ErrImageShort
		return
	}

	img = &Image{
		Origin: binary.BigEndian.Uint16(data),
		Words:  make([]uint16, (len(data)-2)/2),
	}

	for n := range img.Words {
		img.Words[n] = binary.BigEndian.Uint16(data[2+n*2:])
	}

	return
}

// LoadImageFile reads the image file at path.
func LoadImageFile(path string) (img *Image, err error) {
	defer func() {
		if err != nil {
			img = nil
			err = &ErrLoad{Path: path, Err: err}
		}
	}()

	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	return ReadImage(inf)
}

// WriteTo writes the image in the format read by ReadImage.
func (img *Image) WriteTo(w io.Writer) (n int64, err error) {
	data := make([]byte, 2+len(img.Words)*2)
	binary.BigEndian.PutUint16(data, img.Origin)
	for i, word := range img.Words {
		binary.BigEndian.PutUint16(data[2+i*2:], word)
	}

	wrote, err := w.Write(data)
	n = int64(wrote)
	return
}

// Len returns the number of words that fit in memory above the origin.
func (img *Image) Len() int {
	return min(len(img.Words), MEMORY_SIZE-int(img.Origin))
}

// Codes returns an iterator over the address and code of each loadable word.
func (img *Image) Codes() iter.Seq2[uint16, Code] {
	return func(yield func(addr uint16, code Code) bool) {
		for n, word := range img.Words[:img.Len()] {
			if !yield(img.Origin+uint16(n), Code(word)) {
				return
			}
		}
	}
}

// LoadImage copies the image into memory at its origin, and returns the
// number of words copied. Words past the end of memory are dropped.
// Device mappings are bypassed.
func (mem *Memory) LoadImage(img *Image) (count int) {
	for addr, code := range img.Codes() {
		mem.Cell[addr] = uint16(code)
		count++
	}
	return
}

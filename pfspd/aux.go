package pfspd

import (
	"fmt"

	"github.com/leoparders/pfspd/internal/fio"
)

// Auxiliary headers form a chain inside the 16 kB auxiliary header
// blob. Each entry starts with its own total length in ASCII, followed
// by a name, the maximum per-image data size and a reserved field, and
// ends with a free form description. The chain is terminated by a
// sentinel entry whose length is below the minimum valid entry size.
//
// An entry with a nonzero maximum size owns a slice of every image's
// auxiliary data records; entries with size zero only carry metadata.
const (
	auxLenField      = 8
	auxNameField     = 16
	auxMaxSizeField  = 8
	auxReservedField = 16
	auxMinValid      = auxLenField + auxNameField + auxMaxSizeField + auxReservedField

	// Length field of an auxiliary data element in the image records.
	auxDataLenField = 8
)

// auxSentinel terminates the auxiliary header chain. Its length field
// holds 8, less than a minimum entry, so scanning stops here.
var auxSentinel = []byte("       8")

// auxParseInt decodes an ASCII integer field leniently: any byte other
// than a digit or space makes the whole field read as zero.
func auxParseInt(b []byte) int {
	for _, c := range b {
		if c != ' ' && (c < '0' || c > '9') {
			return 0
		}
	}
	v := 0
	seen := false
	for _, c := range b {
		if c >= '0' && c <= '9' {
			v = v*10 + int(c-'0')
			seen = true
		} else if seen {
			break
		}
	}
	return v
}

// auxEntryLen returns the length field of the entry at offset.
func (h *Header) auxEntryLen(offset int) int {
	return auxParseInt(h.auxHdrs[offset : offset+auxLenField])
}

// auxEntryMaxSize returns the maximum data size field of the entry at
// offset.
func (h *Header) auxEntryMaxSize(offset int) int {
	pos := offset + auxLenField + auxNameField
	return auxParseInt(h.auxHdrs[pos : pos+auxMaxSizeField])
}

// auxEntryOffset returns the blob offset of entry id, without range
// checking.
func (h *Header) auxEntryOffset(id int) int {
	offset := 0
	for i := 0; i < id; i++ {
		offset += h.auxEntryLen(offset)
	}
	return offset
}

// auxDataTotal returns the byte size of the auxiliary data records
// needed per image: every data-bearing entry stores a length field
// plus up to its maximum size.
func (h *Header) auxDataTotal() int {
	total := 0
	offset := 0
	for {
		length := h.auxEntryLen(offset)
		if length < auxMinValid {
			return total
		}
		if max := h.auxEntryMaxSize(offset); max > 0 {
			total += max + auxDataLenField
		}
		offset += length
	}
}

// auxDataOffset returns the offset of entry id's data within an
// image's auxiliary data records.
func (h *Header) auxDataOffset(id int) int {
	total := 0
	offset := 0
	for i := 0; i < id; i++ {
		if max := h.auxEntryMaxSize(offset); max > 0 {
			total += max + auxDataLenField
		}
		offset += h.auxEntryLen(offset)
	}
	return total
}

// updateAuxDataRecs recomputes the number of auxiliary data records
// per image from the current chain.
func (h *Header) updateAuxDataRecs() {
	h.nrAuxDataRecs = (h.auxDataTotal() + h.bytesRec - 1) / h.bytesRec
}

// NumAux returns the number of auxiliary headers.
func (h *Header) NumAux() int {
	n := 0
	offset := 0
	for {
		length := h.auxEntryLen(offset)
		if length < auxMinValid {
			return n
		}
		n++
		offset += length
	}
}

// AuxByName returns the id of the named auxiliary header, or -1 when
// no header has that name.
func (h *Header) AuxByName(name string) int {
	padded := padTo(name, auxNameField)
	id := 0
	offset := 0
	for {
		length := h.auxEntryLen(offset)
		if length < auxMinValid {
			return -1
		}
		if string(h.auxHdrs[offset+auxLenField:offset+auxLenField+auxNameField]) == padded {
			return id
		}
		id++
		offset += length
	}
}

// AddAux appends an auxiliary header. maxSize is the per-image data
// budget of the header; zero creates a metadata-only header. The free
// form description travels in the file header, not with the images.
// The name must be unique within the file and the chain must have room
// for the new entry, otherwise ErrAuxHeaderSize is returned.
func (h *Header) AddAux(maxSize int, name, description string) (int, error) {
	if h.AuxByName(name) >= 0 {
		return -1, ErrAuxHeaderSize
	}
	id := 0
	offset := 0
	for {
		length := h.auxEntryLen(offset)
		if length < auxMinValid {
			break
		}
		id++
		offset += length
	}
	if offset+auxMinValid+len(description)+auxLenField > auxHeaderSize {
		return -1, ErrAuxHeaderSize
	}

	entry := fmt.Sprintf("%*d%-*s%*d%-*s",
		auxLenField, auxMinValid+len(description),
		auxNameField, name,
		auxMaxSizeField, maxSize,
		auxReservedField, " ")
	copy(h.auxHdrs[offset:], entry)
	offset += auxMinValid
	copy(h.auxHdrs[offset:], description)
	offset += len(description)
	copy(h.auxHdrs[offset:], auxSentinel)

	h.updateAuxDataRecs()
	h.modified = true
	return id, nil
}

// RemoveAux removes the auxiliary header with the given id. The data
// of later auxiliary headers moves forward within each image, so the
// file data must be rewritten if any later header carries data.
func (h *Header) RemoveAux(id int) error {
	if id < 0 || id >= h.NumAux() {
		return ErrInvalidAuxiliary
	}
	offset := h.auxEntryOffset(id)
	length := h.auxEntryLen(offset)
	copy(h.auxHdrs[offset:], h.auxHdrs[offset+length:])
	for i := auxHeaderSize - length; i < auxHeaderSize; i++ {
		h.auxHdrs[i] = 0
	}
	h.updateAuxDataRecs()
	h.modified = true
	return nil
}

// Aux returns the data budget and name of the auxiliary header with
// the given id.
func (h *Header) Aux(id int) (maxSize int, name string, err error) {
	if id < 0 || id >= h.NumAux() {
		return 0, "", ErrInvalidAuxiliary
	}
	offset := h.auxEntryOffset(id)
	maxSize = h.auxEntryMaxSize(offset)
	raw := h.auxHdrs[offset+auxLenField : offset+auxLenField+auxNameField]
	n := 0
	for n < len(raw) && raw[n] != ' ' && raw[n] != 0 {
		n++
	}
	return maxSize, string(raw[:n]), nil
}

// AuxDescription returns the description of the auxiliary header with
// the given id.
func (h *Header) AuxDescription(id int) (string, error) {
	if id < 0 || id >= h.NumAux() {
		return "", ErrInvalidAuxiliary
	}
	offset := h.auxEntryOffset(id)
	length := h.auxEntryLen(offset)
	return string(h.auxHdrs[offset+auxMinValid : offset+length]), nil
}

// auxImageNumber maps a frame/field pair onto a one-based image
// number. A zero field addresses the whole frame.
func auxImageNumber(frame, field int) int {
	if field > 0 {
		return 2*(frame-1) + field
	}
	return frame
}

// ReadAux reads the auxiliary data of one image into buf and returns
// the number of bytes read. Frames and fields count from one; field
// zero addresses progressive frames. A header without data budget
// reads as zero bytes.
func ReadAux(name string, h *Header, frame, field, id int, buf []byte) (int, error) {
	if id < 0 || id >= h.NumAux() {
		return 0, ErrInvalidAuxiliary
	}
	maxSize := h.auxEntryMaxSize(h.auxEntryOffset(id))
	if maxSize == 0 {
		return 0, nil
	}

	f, err := openFile(name, fio.ModeRead, 0)
	if err != nil {
		return 0, ErrOpenFailed
	}
	offset := h.sizeHeader() +
		int64(auxImageNumber(frame, field)-1)*h.sizeImage() +
		int64(h.auxDataOffset(id))
	if err := seekTo(f, offset); err != nil {
		return 0, err
	}

	var lenBuf [auxDataLenField]byte
	if err := f.Read(lenBuf[:]); err != nil {
		return 0, ErrReadFailed
	}
	size := auxParseInt(lenBuf[:])
	if size == 0 {
		return 0, nil
	}
	if size > len(buf) {
		return 0, ErrAuxDataSize
	}
	if err := f.Read(buf[:size]); err != nil {
		return 0, ErrReadFailed
	}
	return size, nil
}

// WriteAux writes data as the auxiliary data of one image. The data
// must fit the budget declared with AddAux. Writing no data leaves the
// image's element unwritten, which reads back as zero bytes.
func WriteAux(name string, h *Header, frame, field, id int, data []byte) error {
	if id < 0 || id >= h.NumAux() {
		return ErrInvalidAuxiliary
	}
	maxSize := h.auxEntryMaxSize(h.auxEntryOffset(id))
	if len(data) > maxSize {
		return ErrAuxDataSize
	}

	f, err := openFile(name, fio.ModeUpdate, 0)
	if err != nil {
		return ErrOpenFailed
	}
	offset := h.sizeHeader() +
		int64(auxImageNumber(frame, field)-1)*h.sizeImage() +
		int64(h.auxDataOffset(id))
	if err := seekTo(f, offset); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	size := fmt.Sprintf("%*d", auxDataLenField, len(data))
	if err := writeData(f, []byte(size)); err != nil {
		return err
	}
	return writeData(f, data)
}

package skintile

import (
	"bytes"
	"cmp"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"slices"
)

// Aseprite files can be used as skin previews. Only the first frame is
// decoded, flattened into a single image.
// See https://github.com/aseprite/aseprite/blob/main/docs/ase-file-specs.md

type (
	BYTE  = uint8  // An 8-bit unsigned integer value
	WORD  = uint16 // A 16-bit unsigned integer value
	SHORT = int16  // A 16-bit signed integer value
	DWORD = uint32 // A 32-bit unsigned integer value
)

const (
	// Magic number of the file header (0xA5E0)
	MagicNumber = 0xA5E0
	// Magic number of every frame header (0xF1FA)
	MagicNumberFrame = 0xF1FA

	ColorDepthRGBA      WORD = 32
	ColorDepthGrayscale WORD = 16
	ColorDepthIndexed   WORD = 8
)

const (
	chunkOldPalette = 0x0004
	chunkLayer      = 0x2004
	chunkCel        = 0x2005
	chunkPalette    = 0x2019
)

// Cel types
const (
	RawImageData          WORD = 0
	LinkedCelData         WORD = 1
	CompressedImageData   WORD = 2
	CompressedTilemapData WORD = 3
)

const (
	layerFlagVisible    WORD = 1
	layerFlagBackground WORD = 8
)

const (
	headerSize      = 128
	frameHeaderSize = 16

	// Previews are small. Anything larger is refused before allocating.
	maxPixels = 1 << 24

	// Cels index the palette with a single byte.
	maxPaletteSize = 256
)

var errNotAseprite = errors.New("aseprite: invalid magic number")

func init() {
	image.RegisterFormat("aseprite", "????\xe0\xa5", DecodeAseprite, DecodeAsepriteConfig)
}

// Header is the 128 byte file header.
type Header struct {
	FileSize          DWORD    // File size
	MagicNumberHeader WORD     // Magic number (0xA5E0)
	FrameCount        WORD     // Number of frames
	Width             WORD     // Width in pixels
	Height            WORD     // Height in pixels
	ColorDepth        WORD     // 32 bpp = RGBA, 16 bpp = Grayscale, 8 bpp = Indexed
	Flags             DWORD    // 1 = Layer opacity has valid value
	Speed             WORD     // Deprecated, frames carry their own duration
	Reserved1         DWORD    // Set to 0
	Reserved2         DWORD    // Set to 0
	TransparentIdx    BYTE     // Palette entry which is transparent in non-background layers (Indexed only)
	IgnoreBytes       [3]BYTE  // Ignore these bytes
	NumColors         WORD     // Number of colors (0 means 256 for old sprites)
	PixelWidth        BYTE     // Pixel ratio is "pixel width/pixel height"
	PixelHeight       BYTE     // Pixel height
	GridX             SHORT    // X position of the grid
	GridY             SHORT    // Y position of the grid
	GridWidth         WORD     // Zero if there is no grid
	GridHeight        WORD     // Zero if there is no grid
	FutureUse         [84]BYTE // Set to zero
}

// IsLayerOpacityValid reports whether layer opacity should be honoured.
func (h Header) IsLayerOpacityValid() bool {
	return h.Flags&1 != 0
}

func (h Header) bytesPerPixel() int {
	switch h.ColorDepth {
	case ColorDepthRGBA:
		return 4
	case ColorDepthGrayscale:
		return 2
	case ColorDepthIndexed:
		return 1
	default:
		return 0
	}
}

// FrameHeader is the 16 byte header in front of every frame.
type FrameHeader struct {
	BytesInFrame  DWORD   // Bytes in frame, header included
	MagicNumber   WORD    // Magic number (0xF1FA)
	OldChunkCount WORD    // 0xFFFF means the new field must be used
	FrameDuration WORD    // Frame duration in milliseconds
	Reserved      [2]BYTE // Set to 0
	NewChunkCount DWORD   // If this is 0, use OldChunkCount
}

// NumberOfChunks returns the number of chunks in the frame.
func (fh *FrameHeader) NumberOfChunks() uint32 {
	if fh.OldChunkCount == 0xFFFF {
		return fh.NewChunkCount
	}
	if fh.NewChunkCount == 0 {
		return uint32(fh.OldChunkCount)
	}
	return fh.NewChunkCount
}

// Chunk is a raw chunk read from a frame.
type Chunk struct {
	ChunkSize DWORD
	ChunkType WORD
	ChunkData []BYTE
}

type asepriteLayer struct {
	Flags   WORD
	Opacity BYTE
}

func (l asepriteLayer) visible() bool    { return l.Flags&layerFlagVisible != 0 }
func (l asepriteLayer) background() bool { return l.Flags&layerFlagBackground != 0 }

type asepriteCel struct {
	LayerIndex WORD
	X, Y       SHORT
	Opacity    BYTE
	CelType    WORD
	ZIndex     SHORT
	Width      WORD
	Height     WORD
	Pixels     []byte // decompressed
}

// order follows the layer order adjusted by the cel's z-index.
func (c asepriteCel) order() int {
	return int(c.LayerIndex) + int(c.ZIndex)
}

func readHeader(r io.Reader) (*Header, error) {
	header := &Header{}
	if err := binary.Read(r, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("aseprite: read header: %w", err)
	}
	if header.MagicNumberHeader != MagicNumber {
		return nil, errNotAseprite
	}
	return header, nil
}

// DecodeAsepriteConfig returns the canvas size without decoding any frame.
func DecodeAsepriteConfig(r io.Reader) (image.Config, error) {
	header, err := readHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(header.Width),
		Height:     int(header.Height),
	}, nil
}

// DecodeAseprite flattens the first frame of an aseprite file.
func DecodeAseprite(r io.Reader) (image.Image, error) {
	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if header.FrameCount == 0 {
		return nil, errors.New("aseprite: file has no frames")
	}
	if header.bytesPerPixel() == 0 {
		return nil, fmt.Errorf("aseprite: unknown color depth %d", header.ColorDepth)
	}
	if int(header.Width)*int(header.Height) > maxPixels {
		return nil, fmt.Errorf("aseprite: canvas %dx%d is too large", header.Width, header.Height)
	}

	chunks, err := readFirstFrame(r, header)
	if err != nil {
		return nil, err
	}

	var (
		layers     []asepriteLayer
		cels       []asepriteCel
		palette    = make(color.Palette, maxPaletteSize)
		newPalette bool
	)
	for i := range palette {
		palette[i] = color.NRGBA{}
	}

	for _, chunk := range chunks {
		switch chunk.ChunkType {
		case chunkLayer:
			layer, err := parseLayerChunk(chunk.ChunkData)
			if err != nil {
				return nil, err
			}
			layers = append(layers, layer)
		case chunkCel:
			cel, ok, err := parseCelChunk(chunk.ChunkData, header.bytesPerPixel())
			if err != nil {
				return nil, err
			}
			if ok {
				cels = append(cels, cel)
			}
		case chunkPalette:
			if err := parsePaletteChunk(chunk.ChunkData, palette); err != nil {
				return nil, err
			}
			newPalette = true
		case chunkOldPalette:
			if newPalette {
				continue
			}
			if err := parseOldPaletteChunk(chunk.ChunkData, palette); err != nil {
				return nil, err
			}
		}
	}

	slices.SortStableFunc(cels, func(a, b asepriteCel) int {
		if c := cmp.Compare(a.order(), b.order()); c != 0 {
			return c
		}
		return cmp.Compare(a.ZIndex, b.ZIndex)
	})

	canvas := image.NewNRGBA(image.Rect(0, 0, int(header.Width), int(header.Height)))
	for _, cel := range cels {
		layer := asepriteLayer{Flags: layerFlagVisible, Opacity: 255}
		if int(cel.LayerIndex) < len(layers) {
			layer = layers[cel.LayerIndex]
		}
		if !layer.visible() {
			continue
		}

		src := celImage(cel, header, palette, layer.background())
		alpha := uint32(cel.Opacity)
		if header.IsLayerOpacityValid() {
			alpha = alpha * uint32(layer.Opacity) / 255
		}
		mask := image.NewUniform(color.Alpha{A: uint8(alpha)})
		dst := src.Bounds().Add(image.Pt(int(cel.X), int(cel.Y)))
		draw.DrawMask(canvas, dst, src, src.Bounds().Min, mask, image.Point{}, draw.Over)
	}

	return canvas, nil
}

// readFirstFrame reads the chunks of frame 0. The rest of the file is left
// unread. Chunk data is only allocated as it arrives, and no chunk may run
// past the frame or the declared file size.
func readFirstFrame(r io.Reader, header *Header) ([]Chunk, error) {
	frameHeader := &FrameHeader{}
	if err := binary.Read(r, binary.LittleEndian, frameHeader); err != nil {
		return nil, fmt.Errorf("aseprite: read frame header: %w", err)
	}
	if frameHeader.MagicNumber != MagicNumberFrame {
		return nil, fmt.Errorf("aseprite: invalid frame magic 0x%X", frameHeader.MagicNumber)
	}
	if frameHeader.BytesInFrame < frameHeaderSize {
		return nil, fmt.Errorf("aseprite: invalid frame size %d", frameHeader.BytesInFrame)
	}
	if header.FileSize >= headerSize && frameHeader.BytesInFrame > header.FileSize-headerSize {
		return nil, fmt.Errorf("aseprite: frame of %d bytes does not fit in a %d byte file",
			frameHeader.BytesInFrame, header.FileSize)
	}

	var (
		chunks    []Chunk
		remaining = frameHeader.BytesInFrame - frameHeaderSize
	)
	for i := 0; i < int(frameHeader.NumberOfChunks()); i++ {
		chunk := Chunk{}
		if err := binary.Read(r, binary.LittleEndian, &chunk.ChunkSize); err != nil {
			return nil, fmt.Errorf("aseprite: read chunk size: %w", err)
		}
		if err := binary.Read(r, binary.LittleEndian, &chunk.ChunkType); err != nil {
			return nil, fmt.Errorf("aseprite: read chunk type: %w", err)
		}
		// 4 bytes of size plus 2 bytes of type are already read
		if chunk.ChunkSize < 6 {
			return nil, fmt.Errorf("aseprite: invalid chunk size %d", chunk.ChunkSize)
		}
		if chunk.ChunkSize > remaining {
			return nil, fmt.Errorf("aseprite: chunk 0x%04X of %d bytes overruns its frame (%d bytes left)",
				chunk.ChunkType, chunk.ChunkSize, remaining)
		}
		remaining -= chunk.ChunkSize

		var data bytes.Buffer
		n := int64(chunk.ChunkSize - 6)
		if _, err := io.CopyN(&data, r, n); err != nil {
			return nil, fmt.Errorf("aseprite: read chunk 0x%04X: %w", chunk.ChunkType, err)
		}
		chunk.ChunkData = data.Bytes()
		chunks = append(chunks, chunk)
	}

	if remaining != 0 {
		return nil, fmt.Errorf("aseprite: frame size mismatch: %d bytes not covered by chunks", remaining)
	}
	return chunks, nil
}

func parseLayerChunk(data []byte) (asepriteLayer, error) {
	// flags, type, child level, default width, default height, blend mode, opacity
	const minSize = 2*6 + 1
	if len(data) < minSize {
		return asepriteLayer{}, fmt.Errorf("aseprite: layer chunk too short (%d bytes)", len(data))
	}
	return asepriteLayer{
		Flags:   binary.LittleEndian.Uint16(data[0:2]),
		Opacity: data[12],
	}, nil
}

// parseCelChunk returns ok=false for cels that carry no pixels of their own.
func parseCelChunk(data []byte, bytesPerPixel int) (asepriteCel, bool, error) {
	var cel asepriteCel
	r := bytes.NewReader(data)
	for _, field := range []any{&cel.LayerIndex, &cel.X, &cel.Y, &cel.Opacity, &cel.CelType, &cel.ZIndex} {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			return cel, false, fmt.Errorf("aseprite: read cel: %w", err)
		}
	}
	if _, err := r.Seek(5, io.SeekCurrent); err != nil {
		return cel, false, err
	}

	if cel.CelType != RawImageData && cel.CelType != CompressedImageData {
		return cel, false, nil
	}

	if err := binary.Read(r, binary.LittleEndian, &cel.Width); err != nil {
		return cel, false, fmt.Errorf("aseprite: read cel width: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &cel.Height); err != nil {
		return cel, false, fmt.Errorf("aseprite: read cel height: %w", err)
	}

	if int(cel.Width)*int(cel.Height) > maxPixels {
		return cel, false, fmt.Errorf("aseprite: cel %dx%d is too large", cel.Width, cel.Height)
	}
	want := int(cel.Width) * int(cel.Height) * bytesPerPixel

	rest := data[len(data)-r.Len():]
	if cel.CelType == CompressedImageData {
		pixels, err := decompressZlib(rest, want)
		if err != nil {
			return cel, false, fmt.Errorf("aseprite: decompress cel: %w", err)
		}
		rest = pixels
	}

	if len(rest) < want {
		return cel, false, fmt.Errorf("aseprite: cel has %d bytes of pixels, want %d", len(rest), want)
	}
	cel.Pixels = rest[:want]
	return cel, true, nil
}

func parsePaletteChunk(data []byte, palette color.Palette) error {
	r := bytes.NewReader(data)
	var size, first, last DWORD
	for _, field := range []*DWORD{&size, &first, &last} {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			return fmt.Errorf("aseprite: read palette: %w", err)
		}
	}
	switch {
	case size > maxPaletteSize:
		return fmt.Errorf("aseprite: palette of %d colors exceeds %d", size, maxPaletteSize)
	case last < first || last >= size:
		return fmt.Errorf("aseprite: palette range %d-%d outside a palette of %d colors", first, last, size)
	}
	if _, err := r.Seek(8, io.SeekCurrent); err != nil {
		return err
	}

	for i := first; i <= last; i++ {
		var entry struct {
			Flags      WORD
			R, G, B, A BYTE
		}
		if err := binary.Read(r, binary.LittleEndian, &entry); err != nil {
			return fmt.Errorf("aseprite: read palette entry %d: %w", i, err)
		}
		if entry.Flags&1 != 0 {
			var nameLen WORD
			if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
				return fmt.Errorf("aseprite: read palette entry name: %w", err)
			}
			if _, err := r.Seek(int64(nameLen), io.SeekCurrent); err != nil {
				return err
			}
		}
		palette[i] = color.NRGBA{R: entry.R, G: entry.G, B: entry.B, A: entry.A}
	}
	return nil
}

func parseOldPaletteChunk(data []byte, palette color.Palette) error {
	r := bytes.NewReader(data)
	var packets WORD
	if err := binary.Read(r, binary.LittleEndian, &packets); err != nil {
		return fmt.Errorf("aseprite: read old palette: %w", err)
	}

	index := 0
	for p := 0; p < int(packets); p++ {
		var skip, count BYTE
		if err := binary.Read(r, binary.LittleEndian, &skip); err != nil {
			return fmt.Errorf("aseprite: read old palette packet: %w", err)
		}
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return fmt.Errorf("aseprite: read old palette packet: %w", err)
		}
		index += int(skip)
		n := int(count)
		if n == 0 {
			n = 256
		}
		if index+n > len(palette) {
			return fmt.Errorf("aseprite: old palette packet %d runs past %d colors", p, len(palette))
		}
		for i := 0; i < n; i++ {
			var rgb [3]BYTE
			if err := binary.Read(r, binary.LittleEndian, &rgb); err != nil {
				return fmt.Errorf("aseprite: read old palette color: %w", err)
			}
			palette[index] = color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
			index++
		}
	}
	return nil
}

func celImage(cel asepriteCel, header *Header, palette color.Palette, background bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, int(cel.Width), int(cel.Height)))
	bpp := header.bytesPerPixel()
	for y := 0; y < int(cel.Height); y++ {
		for x := 0; x < int(cel.Width); x++ {
			p := cel.Pixels[(y*int(cel.Width)+x)*bpp:]
			var c color.NRGBA
			switch header.ColorDepth {
			case ColorDepthRGBA:
				c = color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
			case ColorDepthGrayscale:
				c = color.NRGBA{R: p[0], G: p[0], B: p[0], A: p[1]}
			case ColorDepthIndexed:
				idx := p[0]
				if idx == header.TransparentIdx && !background {
					continue
				}
				if int(idx) < len(palette) {
					c = color.NRGBAModel.Convert(palette[idx]).(color.NRGBA)
				}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// decompressZlib inflates at most want bytes. A stream that holds more is
// rejected without being inflated further.
func decompressZlib(data []byte, want int) ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(reader, int64(want)+1)); err != nil {
		return nil, err
	}
	if buf.Len() > want {
		return nil, fmt.Errorf("inflates past the %d bytes the cel needs", want)
	}
	return buf.Bytes(), nil
}

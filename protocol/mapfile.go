package protocol

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/tilemason/tilemason/brush"
	"github.com/tilemason/tilemason/grid"
)

// MapVersion is the envelope version written by this package.
const MapVersion = 1

const (
	// FormatJSON stores layers as nested integer arrays.
	FormatJSON = "json"
	// FormatBinary stores layers as base64 run-length blocks.
	FormatBinary = "binary"
)

var (
	ErrBadMagic      = errors.New("protocol: invalid map container magic")
	ErrBadVersion    = errors.New("protocol: unsupported map version")
	ErrBadChecksum   = errors.New("protocol: map container checksum mismatch")
	ErrShortLayer    = errors.New("protocol: truncated layer block")
	ErrBadDimensions = errors.New("protocol: non-positive map dimensions")
)

// TilemapSettings records which tile sheet the map was painted with.
type TilemapSettings struct {
	Path       string `json:"path"`
	TileWidth  int    `json:"tileWidth"`
	TileHeight int    `json:"tileHeight"`
}

// MapData is the grid portion of the envelope. JSON maps carry Layers;
// binary maps carry Packed, one base64 RLE block per layer.
type MapData struct {
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Layers [][][]int32 `json:"layers,omitempty"`
	Packed []string    `json:"packed,omitempty"`
}

// MapFile is the serialized map envelope.
type MapFile struct {
	Version         int             `json:"version"`
	Format          string          `json:"format"`
	MapData         MapData         `json:"mapData"`
	TilemapSettings TilemapSettings `json:"tilemapSettings"`
	CustomBrushes   []*brush.Brush  `json:"customBrushes,omitempty"`
}

// EncodeLayer packs one row-major layer as a (width, height) header
// followed by little-endian (count, value) int16 run pairs.
func EncodeLayer(data []int32, width, height int) []byte {
	out := make([]byte, 4, 4+len(data)/2)
	binary.LittleEndian.PutUint16(out[0:2], uint16(width))
	binary.LittleEndian.PutUint16(out[2:4], uint16(height))

	for i := 0; i < len(data); {
		v := data[i]
		count := 1
		for i+count < len(data) && data[i+count] == v && count < 0x7FFF {
			count++
		}
		var pair [4]byte
		binary.LittleEndian.PutUint16(pair[0:2], uint16(count))
		binary.LittleEndian.PutUint16(pair[2:4], uint16(int16(v)))
		out = append(out, pair[:]...)
		i += count
	}
	return out
}

// DecodeLayer reverses EncodeLayer. Runs beyond width*height cells are
// rejected rather than truncated silently.
func DecodeLayer(b []byte) (int, int, []int32, error) {
	if len(b) < 4 {
		return 0, 0, nil, ErrShortLayer
	}
	width := int(binary.LittleEndian.Uint16(b[0:2]))
	height := int(binary.LittleEndian.Uint16(b[2:4]))
	if width <= 0 || height <= 0 {
		return 0, 0, nil, ErrBadDimensions
	}
	b = b[4:]

	size := width * height
	data := make([]int32, 0, size)
	for len(b) > 0 {
		if len(b) < 4 {
			return 0, 0, nil, ErrShortLayer
		}
		count := int(binary.LittleEndian.Uint16(b[0:2]))
		value := int32(int16(binary.LittleEndian.Uint16(b[2:4])))
		b = b[4:]
		if count == 0 || len(data)+count > size {
			return 0, 0, nil, fmt.Errorf("protocol: run overflows %dx%d layer", width, height)
		}
		for i := 0; i < count; i++ {
			data = append(data, value)
		}
	}
	if len(data) != size {
		return 0, 0, nil, ErrShortLayer
	}
	return width, height, data, nil
}

// ExportMap captures the grid and custom brushes into an envelope.
func ExportMap(g *grid.Shared, brushes []*brush.Brush, settings TilemapSettings, format string) (*MapFile, error) {
	if format != FormatJSON && format != FormatBinary {
		return nil, fmt.Errorf("protocol: unknown map format %q", format)
	}
	w, h := g.Size()
	mf := &MapFile{
		Version:         MapVersion,
		Format:          format,
		MapData:         MapData{Width: w, Height: h},
		TilemapSettings: settings,
		CustomBrushes:   brushes,
	}

	for layer := 0; layer < grid.Layers; layer++ {
		data := g.LayerData(layer)
		if format == FormatBinary {
			packed := EncodeLayer(data, w, h)
			mf.MapData.Packed = append(mf.MapData.Packed, base64.StdEncoding.EncodeToString(packed))
			continue
		}
		rows := make([][]int32, h)
		for y := 0; y < h; y++ {
			rows[y] = data[y*w : (y+1)*w]
		}
		mf.MapData.Layers = append(mf.MapData.Layers, rows)
	}
	return mf, nil
}

// ImportMap loads an envelope into the grid, resizing it to the stored
// dimensions. Maps with fewer layers than the grid are padded with
// empty layers; extra layers are truncated.
func ImportMap(mf *MapFile, g *grid.Shared) error {
	if mf == nil {
		return errors.New("protocol: nil map file")
	}
	w, h := mf.MapData.Width, mf.MapData.Height
	if w <= 0 || h <= 0 {
		return ErrBadDimensions
	}
	if err := g.Resize(w, h, grid.AlignLeft, grid.AlignTop); err != nil {
		return err
	}

	for layer := 0; layer < grid.Layers; layer++ {
		data, err := importLayer(mf, layer, w, h)
		if err != nil {
			return fmt.Errorf("protocol: layer %d: %w", layer, err)
		}
		g.SetLayerData(layer, data)
	}
	return nil
}

// importLayer extracts one layer from either format, or nil (all
// empty) when the map holds fewer layers than the grid.
func importLayer(mf *MapFile, layer, w, h int) ([]int32, error) {
	switch mf.Format {
	case FormatBinary:
		if layer >= len(mf.MapData.Packed) {
			return nil, nil
		}
		raw, err := base64.StdEncoding.DecodeString(mf.MapData.Packed[layer])
		if err != nil {
			return nil, fmt.Errorf("bad base64: %w", err)
		}
		lw, lh, data, err := DecodeLayer(raw)
		if err != nil {
			return nil, err
		}
		if lw != w || lh != h {
			return nil, fmt.Errorf("layer is %dx%d, map is %dx%d", lw, lh, w, h)
		}
		return data, nil

	case FormatJSON:
		if layer >= len(mf.MapData.Layers) {
			return nil, nil
		}
		rows := mf.MapData.Layers[layer]
		data := make([]int32, 0, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v := grid.Empty
				if y < len(rows) && x < len(rows[y]) {
					v = rows[y][x]
				}
				data = append(data, v)
			}
		}
		return data, nil

	default:
		return nil, fmt.Errorf("unknown map format %q", mf.Format)
	}
}

// Container framing for .tmm files: magic, version, payload length and
// a crc32 over the JSON envelope.
const (
	containerMagic uint32 = 0x544d4d01 // "TMM\x01"
	containerHead         = 16
)

// WriteContainer frames and writes a map file.
func WriteContainer(w io.Writer, mf *MapFile) error {
	payload, err := json.Marshal(mf)
	if err != nil {
		return err
	}
	head := make([]byte, containerHead)
	binary.LittleEndian.PutUint32(head[0:4], containerMagic)
	binary.LittleEndian.PutUint32(head[4:8], uint32(MapVersion))
	binary.LittleEndian.PutUint32(head[8:12], uint32(len(payload)))
	binary.LittleEndian.PutUint32(head[12:16], crc32.ChecksumIEEE(payload))
	if _, err := w.Write(head); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// ReadContainer reads and validates a framed map file.
func ReadContainer(r io.Reader) (*MapFile, error) {
	head := make([]byte, containerHead)
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, err
	}
	if binary.LittleEndian.Uint32(head[0:4]) != containerMagic {
		return nil, ErrBadMagic
	}
	if binary.LittleEndian.Uint32(head[4:8]) != MapVersion {
		return nil, ErrBadVersion
	}
	length := binary.LittleEndian.Uint32(head[8:12])
	sum := binary.LittleEndian.Uint32(head[12:16])

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	if crc32.ChecksumIEEE(payload) != sum {
		return nil, ErrBadChecksum
	}

	var mf MapFile
	if err := json.Unmarshal(payload, &mf); err != nil {
		return nil, fmt.Errorf("protocol: decode map envelope: %w", err)
	}
	return &mf, nil
}

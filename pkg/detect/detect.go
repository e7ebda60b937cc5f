package detect

import (
	"fmt"

	"github.com/bgrewell/boot-kit/pkg/consts"
	"github.com/bgrewell/boot-kit/pkg/ext"
	"github.com/bgrewell/boot-kit/pkg/fat"
	"github.com/bgrewell/boot-kit/pkg/info"
	"github.com/bgrewell/boot-kit/pkg/logging"
	"github.com/bgrewell/boot-kit/pkg/mbr"
	"github.com/bgrewell/boot-kit/pkg/ntfs"
	"github.com/bgrewell/boot-kit/pkg/option"
	"github.com/bgrewell/boot-kit/pkg/source"
)

type probe struct {
	format Format
	offset int64
	length int64
	detail string
	parse  func(src *source.Source, offset int64, opts *option.OpenOptions, logger *logging.Logger) (Record, error)
}

// probes run in this order and the first one that verifies wins.
var probes = []probe{
	{
		format: FORMAT_MBR,
		offset: consts.MBR_PARTITION_TABLE_OFFSET,
		length: consts.MBR_TABLE_SIZE,
		detail: "Partition Table + Signature",
		parse: func(src *source.Source, offset int64, _ *option.OpenOptions, logger *logging.Logger) (Record, error) {
			m, err := mbr.Parse(src, offset, logger)
			return Record{Format: FORMAT_MBR, MBR: m}, err
		},
	},
	{
		format: FORMAT_NTFS,
		offset: 0,
		length: consts.NTFS_HEADER_SIZE,
		detail: "Boot Sector",
		parse: func(src *source.Source, offset int64, _ *option.OpenOptions, logger *logging.Logger) (Record, error) {
			b, err := ntfs.Parse(src, offset, logger)
			return Record{Format: FORMAT_NTFS, NTFS: b}, err
		},
	},
	{
		format: FORMAT_FAT,
		offset: 0,
		length: consts.FAT_BPB_SIZE,
		detail: "BIOS Parameter Block",
		parse: func(src *source.Source, offset int64, opts *option.OpenOptions, logger *logging.Logger) (Record, error) {
			b, err := fat.Parse(src, offset, opts.ExtendedHeaders, logger)
			return Record{Format: FORMAT_FAT, FAT: b}, err
		},
	},
	{
		format: FORMAT_EXT,
		offset: consts.EXT_SUPERBLOCK_OFFSET,
		length: consts.EXT_SUPERBLOCK_SIZE,
		detail: "Superblock",
		parse: func(src *source.Source, offset int64, opts *option.OpenOptions, logger *logging.Logger) (Record, error) {
			s, err := ext.Parse(src, offset, opts.ExtendedHeaders, logger)
			return Record{Format: FORMAT_EXT, Ext: s}, err
		},
	},
}

// Detector runs the probe chain against a source. A Detector keeps the layout of its last run and is not safe
// for concurrent use.
type Detector struct {
	options *option.OpenOptions
	logger  *logging.Logger
	layout  *info.DiskLayout
}

// New returns a Detector configured by opts.
func New(opts ...option.OpenOption) *Detector {
	o := option.Apply(opts...)
	return &Detector{
		options: o,
		logger:  o.Logger.WithName("detect"),
		layout:  info.NewDiskLayout(),
	}
}

// Detect returns the first record whose signature verifies. It returns ErrUnsupported when no probe verifies and
// stops at the first read error, which is returned wrapped and is never ErrUnsupported.
func (d *Detector) Detect(src *source.Source) (Record, error) {
	d.layout = info.NewDiskLayout()

	for i, p := range probes {
		logger := d.logger.WithValues("structure", p.format.Name(), "offset", p.offset)
		logger.Trace("Probing")

		rec, err := p.parse(src, p.offset, d.options, logger)
		if err != nil {
			logger.Error(err, "Probe failed to read header")
			return Record{}, fmt.Errorf("failed to probe %s at offset %d: %w", p.format.Name(), p.offset, err)
		}

		verified := rec.Verify()
		d.layout.AddRegion(p.format.Name(), p.detail, p.offset, p.length, verified)
		d.options.ProbeProgressCallback(p.format.Name(), p.offset, verified, i+1, len(probes))

		if verified {
			logger.Debug("Structure verified")
			return rec, nil
		}
		logger.Debug("Structure did not verify")
	}

	d.logger.Debug("No structure verified")
	return Record{}, ErrUnsupported
}

// Layout returns the regions read by the last call to Detect.
func (d *Detector) Layout() *info.DiskLayout {
	return d.layout
}

// Detect runs a single detection pass with a new Detector.
func Detect(src *source.Source, opts ...option.OpenOption) (Record, error) {
	return New(opts...).Detect(src)
}

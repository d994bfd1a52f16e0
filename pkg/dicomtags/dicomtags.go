// Package dicomtags builds the DICOM-ish tag map a rendered panoramic
// raster is published alongside (C7), keyed on the same
// github.com/suyashkumar/dicom/dicomtag.Tag vocabulary a viewer uses to
// read ordinary slice metadata.
package dicomtags

import (
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/suyashkumar/dicom/dicomtag"
)

// Metadata is the tag map attached to a rendered raster: DICOM tag to
// value, mirroring the shape bulkprocess.DicomToTagMap produces when it
// reads an ordinary slice, but with plain Go values rather than DICOM
// elements: scalars for single-valued tags and a []float64 for the
// two-valued PixelSpacing.
type Metadata map[dicomtag.Tag]any

// Params carries the geometric facts of a render that become DICOM tags:
// the raster's pixel grid, the physical spacing of one output pixel along
// rows and columns, and the SliceThickness value to report (pkg/cpr
// passes pmm here, not the MIP slab thickness).
type Params struct {
	Rows, Columns            int
	RowSpacingMM, ColSpacingMM float64
	SliceThicknessMM          float64
	InstanceNumber            int
}

// Build constructs a fresh Metadata for one render: Rows, Columns,
// PixelSpacing, SliceThickness, a newly minted SOPInstanceUID and the
// given InstanceNumber. PixelSpacing follows the DICOM convention of
// "row spacing\column spacing" stored as a two-element value, matching
// how bulkprocess.DicomToTagMap and dicom-metadata.go read it back.
func Build(p Params) Metadata {
	return Metadata{
		dicomtag.Rows:            p.Rows,
		dicomtag.Columns:         p.Columns,
		dicomtag.PixelSpacing:    []float64{p.RowSpacingMM, p.ColSpacingMM},
		dicomtag.SliceThickness:  p.SliceThicknessMM,
		dicomtag.SOPInstanceUID:  NewSOPInstanceUID(),
		dicomtag.InstanceNumber:  p.InstanceNumber,
	}
}

// Merge copies every tag from extra into base, overwriting any tag base
// already carries, and returns base. It is how caller-supplied
// patient/study-level tags (PatientID, StudyInstanceUID, and the like,
// none of which this package can know on its own) are attached to a
// render's Metadata.
func Merge(base Metadata, extra Metadata) Metadata {
	for tag, value := range extra {
		base[tag] = value
	}
	return base
}

// NewSOPInstanceUID mints a fresh DICOM UID using the UUID-derived OID
// root convention of ITU-T X.667 / ISO/IEC 9834-8 ("2.25." followed by the
// UUID's value as a plain decimal integer): every call produces a UID
// that has never been issued before, without a central registration
// authority, the same scheme dcm4che's UIDUtils.createUID() uses in
// clinical viewers.
func NewSOPInstanceUID() string {
	id := uuid.New()
	n := new(big.Int).SetBytes(id[:])
	return fmt.Sprintf("2.25.%s", n.String())
}

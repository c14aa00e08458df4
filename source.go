package regsim

// XSource is one of the ways a design matrix can be supplied: GenerateX, ManualX or FileX
type XSource interface {
	isXSource()
}

// BSource is one of the ways the true coefficients can be supplied: GenerateB or ManualB
type BSource interface {
	isBSource()
}

// GenerateX samples an NObs x NFeats design matrix uniformly from [Min, Max]
type GenerateX struct {
	Min       float64
	Max       float64
	Precision int
}

// ManualX is a typed in design matrix. Its shape must equal the applied dimensions and
// can be at most 10 x 10.
type ManualX struct {
	Values    [][]string
	Precision int
}

// FileX loads a comma separated design matrix. The applied dimensions are replaced by the
// shape of the file and values are rounded to Precision.
type FileX struct {
	Path      string
	Precision int
}

// GenerateB samples NFeats coefficients uniformly from [Min, Max]
type GenerateB struct {
	Min       float64
	Max       float64
	Precision int
}

// ManualB is a typed in coefficient vector with one value per feature
type ManualB struct {
	Values    []string
	Precision int
}

func (GenerateX) isXSource() {}
func (ManualX) isXSource()   {}
func (FileX) isXSource()     {}

func (GenerateB) isBSource() {}
func (ManualB) isBSource()   {}

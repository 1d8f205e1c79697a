package basicpitch

import (
	"github.com/knights-analytics/basicpitch/util/fileutil"
)

// ICASSP2022ModelDir is where the pretrained models live, relative to the package base directory.
const ICASSP2022ModelDir = "saved_models/icassp_2022"

// BuildModelPath joins the base directory, the model directory and the runtime's asset suffix.
// It does no I/O and does not check that the asset exists.
func BuildModelPath(baseDir string, k RuntimeKind) string {
	return fileutil.PathJoinSafe(baseDir, ICASSP2022ModelDir, k.Suffix())
}

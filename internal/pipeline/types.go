package pipeline

// Request is one video-creation job.
type Request struct {
	// Niche names the run; it prefixes every persisted artifact.
	Niche string
	// Script is the narration text that drives all timing.
	Script string
	// Caption and Hashtags pass through verbatim to side-files.
	Caption  string
	Hashtags string
	// AssetPaths are local media files from the acquisition collaborator.
	AssetPaths []string
	// OutputRoot is where the final artifacts land; the scoped run
	// workspace also lives under it.
	OutputRoot string
}

// Result holds the persisted artifact paths of a successful run.
type Result struct {
	VideoPath    string
	CaptionPath  string
	HashtagsPath string
	// Duration is the measured narration duration the video was timed to.
	Duration float64
}

package stream

// Config holds the MQTT connection settings for the style streamer.
type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Topics   struct {
			Styles  string `yaml:"styles"`
			Control string `yaml:"control"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	FrameRate float64 `yaml:"frameRate"`
}

package config

import "time"

const defaultNegativePrompt = "low quality, blurry, distorted, deformed, watermark, text, ugly, bad anatomy, poor quality, low resolution"

// Default returns the built-in configuration: demo-ready, no credential.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:        5000,
			Environment: EnvDevelopment,
			StaticDir:   "client/build",
			BodyLimit:   "5M",
			RateLimit: RateLimitConfig{
				Requests: 50,
				Window:   15 * time.Minute,
			},
		},
		Replicate: ReplicateConfig{
			BaseURL: "https://api.replicate.com/v1",
			Models: []ModelConfig{
				{
					Name:       "Luma Ray",
					Identifier: "luma/ray",
					Parameters: map[string]any{
						"width":               1024,
						"height":              576,
						"num_frames":          24,
						"fps":                 8,
						"guidance_scale":      7.5,
						"num_inference_steps": 50,
					},
				},
				{
					Name:       "Stable Video Diffusion",
					Identifier: "stability-ai/stable-video-diffusion",
					Parameters: map[string]any{
						"motion_bucket_id": 127,
						"fps":              6,
						"width":            1024,
						"height":           576,
					},
					RandomSeed: true,
				},
				{
					Name:       "AnimateDiff Lightning",
					Identifier: "guoyww/animatediff",
					Parameters: map[string]any{
						"width":               512,
						"height":              512,
						"num_frames":          16,
						"num_inference_steps": 8,
						"guidance_scale":      1.2,
						"fps":                 8,
					},
				},
			},
		},
		Generation: GenerationConfig{
			NegativePrompt: defaultNegativePrompt,
			AttemptTimeout: 60 * time.Second,
			RequestTimeout: 180 * time.Second,
		},
		Fallback: FallbackConfig{
			Delay: 3 * time.Second,
			Videos: []FallbackVideo{
				{URL: "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4", Description: "Animated short film"},
				{URL: "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ForBiggerBlazes.mp4", Description: "Action sequence"},
				{URL: "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ForBiggerEscapes.mp4", Description: "Adventure scene"},
				{URL: "https://sample-videos.com/zip/10/mp4/SampleVideo_1280x720_1mb.mp4", Description: "Nature footage"},
			},
		},
	}
}

func defaultCORSOrigins(environment string) []string {
	if environment == EnvProduction {
		return []string{"http://34.229.176.75:5000", "http://34.229.176.75"}
	}
	return []string{"http://localhost:3000"}
}

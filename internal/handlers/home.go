package handlers

// HomeData is the view model for the home page.
type HomeData struct {
	Message string
}

// BuildHomeData constructs the default view model for the landing page.
func BuildHomeData() HomeData {
	return HomeData{
		Message: "Gilded Lane curates goods with a past, delivered with care.",
	}
}

package auth

import (
	"fmt"
	"io"
	"strings"
)

// FacebookOAuthURL is the dialog that hands out a Facebook access token
// accepted by the dating API
const FacebookOAuthURL = "https://www.facebook.com/dialog/oauth?client_id=464891386855067" +
	"&redirect_uri=https://www.facebook.com/connect/login_success.html" +
	"&scope=basic_info,email,public_profile,user_about_me,user_activities," +
	"user_birthday,user_education_history,user_friends,user_interests,user_likes," +
	"user_location,user_photos,user_relationship_details&response_type=token"

// FindFacebookIDURL looks up the numeric id of a Facebook account
const FindFacebookIDURL = "http://findmyfacebookid.com"

// ShowTokenGuide writes the steps for obtaining a Facebook token and id
func ShowTokenGuide(w io.Writer) {
	rule := strings.Repeat("=", 72)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "FACEBOOK TOKEN GUIDE")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The bot logs in with a Facebook access token and your Facebook id.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "STEP 1: Get a token")
	fmt.Fprintln(w, "   Open this URL while logged in to Facebook and accept the dialog:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "   "+FacebookOAuthURL)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "   You are redirected to a blank page. Copy the value of")
	fmt.Fprintln(w, "   access_token=... from the address bar, up to the next '&'.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "STEP 2: Get your Facebook id")
	fmt.Fprintln(w, "   Enter your profile URL at "+FindFacebookIDURL)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "STEP 3: Store them")
	fmt.Fprintln(w, "   tinderbot auth login")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tokens expire after a few hours to a few weeks. When login starts")
	fmt.Fprintln(w, "failing with an auth error, repeat step 1.")
	fmt.Fprintln(w, rule)
}

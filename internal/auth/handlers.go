package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/FieldTrace/FT-Backend/internal/db"
	"github.com/FieldTrace/FT-Backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// sessionCookie builds the session cookie. Hosted deploys (PORT set by the
// platform) serve the SPA from another origin, so the cookie needs
// SameSite=None + Secure; local dev runs over plain HTTP and uses Lax.
func sessionCookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     "session_id",
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   maxAge,
	}
	if os.Getenv("PORT") != "" {
		c.SameSite = http.SameSiteNoneMode
		c.Secure = true
	} else {
		c.SameSite = http.SameSiteLaxMode
		c.Secure = false
	}
	return c
}

func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var user User

	err := json.NewDecoder(r.Body).Decode(&user)
	if err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}

	// Check if request has username & password
	if user.Username == "" || user.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	// Check if username is taken
	var existing User
	err = db.DB.First(&existing, "username = ?", user.Username).Error
	if err == nil {
		http.Error(w, "Username already taken", http.StatusConflict)
		return
	}

	// Hash password
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Server error hashing password", http.StatusInternalServerError)
		return
	}
	user.HashedPassword = string(hashed)
	user.UserID = utils.GenerateUUID()

	// Self-signup always lands as a surveyor; admins are promoted via seeds or SQL.
	user.Role = "surveyor"

	// Clear user password
	user.Password = ""

	// Save to DB
	if err := db.DB.Create(&user).Error; err != nil {
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"user_id":  user.UserID,
		"username": user.Username,
	})
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var creds User
	var user User
	var existing Session

	err := json.NewDecoder(r.Body).Decode(&creds)
	if err != nil {
		http.Error(w, "Invalid Data", http.StatusBadRequest)
		return
	}

	// Search for matching username
	err = db.DB.First(&user, "username = ?", creds.Username).Error
	if err != nil {
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	// Compare hashed password with plaintext password
	err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(creds.Password))
	if err != nil {
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	// Passwords matched, rotate the session and set the cookie
	sessionID := utils.GenerateUUID()
	expiresAt := time.Now().Add(6 * time.Hour)

	db.DB.Where("user_id = ?", user.UserID).First(&existing)
	if existing.UserID != "" {
		err = db.DB.Model(&existing).Updates(Session{
			SessionID: sessionID,
			ExpiresAt: expiresAt,
		}).Error
	} else {
		err = db.DB.Create(&Session{
			SessionID: sessionID,
			UserID:    user.UserID,
			ExpiresAt: expiresAt,
		}).Error
	}
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, sessionCookie(sessionID, int((6 * time.Hour).Seconds())))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"user_id":  user.UserID,
		"username": user.Username,
		"role":     user.Role,
	})
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var session Session

	// Get session_id from cookie
	cookie, err := r.Cookie("session_id")
	if err != nil {
		http.Error(w, "Couldn't find cookie", http.StatusUnauthorized)
		return
	}

	// search sessions for session_id
	err = db.DB.First(&session, "session_id = ?", cookie.Value).Error
	if err != nil {
		http.Error(w, "Couldn't find session", http.StatusUnauthorized)
		return
	}

	// Delete session record and replace cookie with an expired one
	db.DB.Delete(&session)
	http.SetCookie(w, sessionCookie("", -1))

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Logout successful")
}

type MeResponse struct {
	UserID        string `json:"user_id"`
	Username      string `json:"username"`
	Role          string `json:"role"`
	ProfilePicURL string `json:"profile_pic_url,omitempty"`
}

func MeHandler(w http.ResponseWriter, r *http.Request) {
	var user User

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Failed converting ID to string", http.StatusInternalServerError)
		return
	}

	err := db.DB.First(&user, "user_id = ?", userID).Error
	if err != nil {
		http.Error(w, "Couldn't find user", http.StatusNotFound)
		return
	}

	response := MeResponse{
		UserID:        userID,
		Username:      user.Username,
		Role:          user.Role,
		ProfilePicURL: user.ProfilePicURL,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func UpdatePasswordHandler(w http.ResponseWriter, r *http.Request) {
	type UpdatePassword struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	var user User
	var updatepass UpdatePassword

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	err := db.DB.First(&user, "user_id = ?", userID).Error
	if err != nil {
		http.Error(w, "Couldn't find user", http.StatusUnauthorized)
		return
	}

	// Check we have both old & new password
	err = json.NewDecoder(r.Body).Decode(&updatepass)
	if err != nil || updatepass.CurrentPassword == "" || updatepass.NewPassword == "" {
		http.Error(w, "Current and new password are required", http.StatusBadRequest)
		return
	}

	// Make sure user's current password matches stored hash before updating
	err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(updatepass.CurrentPassword))
	if err != nil {
		http.Error(w, "Invalid current password", http.StatusUnauthorized)
		return
	}

	// Hash new password
	hashed, err := bcrypt.GenerateFromPassword([]byte(updatepass.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Server error hashing password", http.StatusInternalServerError)
		return
	}

	// Update stored hashed_password
	db.DB.Model(&user).Update("hashed_password", string(hashed))

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Password updated")
}

package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"gymclass/internal/database"
	"gymclass/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	rand.Seed(time.Now().UnixNano())

	db, err := database.Connect("gym.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM waitlist_entries")
	db.Exec("DELETE FROM reservations")
	db.Exec("DELETE FROM classes")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:            "admin@gymclass.kz",
		PasswordHash:     string(adminHash),
		Role:             domain.RoleAdmin,
		Name:             "Admin",
		MembershipStatus: domain.MembershipActive,
	}
	db.Create(&admin)
	log.Println("Admin created: admin@gymclass.kz / admin123")

	instructors := []domain.User{}
	instructorNames := []string{"aizhan", "marat", "sergey"}
	for i, name := range instructorNames {
		hash, _ := bcrypt.GenerateFromPassword([]byte("coach123"), bcrypt.DefaultCost)
		instructor := domain.User{
			Email:            fmt.Sprintf("%s@gymclass.kz", name),
			PasswordHash:     string(hash),
			Role:             domain.RoleInstructor,
			Name:             name,
			Phone:            fmt.Sprintf("+7 777 200 10%02d", i),
			MembershipStatus: domain.MembershipActive,
		}
		db.Create(&instructor)
		instructors = append(instructors, instructor)
	}

	members := []domain.User{}
	memberEmails := []string{"asel@mail.kz", "bekzat@gmail.com", "dina@yandex.kz", "timur@mail.kz", "kamila@gmail.com"}
	for i, email := range memberEmails {
		hash, _ := bcrypt.GenerateFromPassword([]byte("member123"), bcrypt.DefaultCost)
		member := domain.User{
			Email:            email,
			PasswordHash:     string(hash),
			Role:             domain.RoleMember,
			Name:             fmt.Sprintf("Member %d", i+1),
			Phone:            fmt.Sprintf("+7 777 123 45%02d", i+10),
			MembershipStatus: domain.MembershipActive,
		}
		db.Create(&member)
		members = append(members, member)
	}

	// ================== CLASSES ==================
	log.Println("Creating classes...")

	types := []domain.ClassType{
		domain.ClassSpinning,
		domain.ClassYoga,
		domain.ClassPilates,
		domain.ClassStrength,
		domain.ClassCardio,
	}
	names := map[domain.ClassType]string{
		domain.ClassSpinning: "Spinning",
		domain.ClassYoga:     "Yoga Flow",
		domain.ClassPilates:  "Pilates Core",
		domain.ClassStrength: "Strength Training",
		domain.ClassCardio:   "Cardio Blast",
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	classes := make([]domain.Class, 0, 21)
	for day := 1; day <= 7; day++ {
		for slot, hour := range []int{8, 12, 19} {
			t := types[(day+slot)%len(types)]
			instructor := instructors[(day+slot)%len(instructors)]
			class := domain.Class{
				Name:           names[t],
				Type:           t,
				Description:    "Group class, all levels welcome",
				InstructorID:   &instructor.ID,
				StartsAt:       today.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour),
				EndsAt:         today.AddDate(0, 0, day).Add(time.Duration(hour+1) * time.Hour),
				Capacity:       10 + rand.Intn(11),
				Status:         domain.ClassActive,
				AllowsWaitlist: true,
			}
			db.Create(&class)
			classes = append(classes, class)
		}
	}

	// ================== RESERVATIONS ==================
	log.Println("Creating reservations...")

	booked := 0
	for i := range classes {
		class := &classes[i]
		seats := rand.Intn(len(members) + 1)
		for m := 0; m < seats; m++ {
			res := domain.Reservation{
				MemberID: members[m].ID,
				ClassID:  class.ID,
				Status:   domain.ReservationConfirmed,
				BookedAt: time.Now().UTC(),
			}
			if db.Create(&res).Error == nil {
				booked++
			}
		}
		db.Model(&domain.Class{}).Where("id = ?", class.ID).Update("occupied", seats)
	}

	log.Printf("Seed complete: %d classes, %d reservations", len(classes), booked)
	log.Println("Member login: asel@mail.kz / member123")
	log.Println("Instructor login: aizhan@gymclass.kz / coach123")
}

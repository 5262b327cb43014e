package seeds

func SeedAll() error {
	if err := SeedUsers(); err != nil {
		return err
	}
	if err := SeedSurveyors(); err != nil {
		return err
	}
	if err := SeedSurveys(); err != nil {
		return err
	}
	return nil
}
